package inspect

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/raven-betanet/elf-decoder/internal/elf"
	"github.com/raven-betanet/elf-decoder/internal/utils"
)

// Status is the outcome of decoding one file
type Status string

const (
	StatusDecoded Status = "decoded"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Options controls how each file is decoded
type Options struct {
	Termination elf.Termination
	// MaxFileSize of zero means unlimited
	MaxFileSize int64
	// Strict turns reported diagnostics into a failure
	Strict bool
}

// FileReport is the result of one decode session
type FileReport struct {
	Path           string                 `json:"path"`
	Size           int                    `json:"size"`
	Header         *elf.Header            `json:"header,omitempty"`
	ProgramHeaders elf.ProgramHeaderTable `json:"program_headers,omitempty"`
	Diagnostics    []*elf.DecodeError     `json:"diagnostics,omitempty"`
	Error          error                  `json:"-"`
	Status         Status                 `json:"status"`
	Duration       time.Duration          `json:"duration"`
}

// Failed reports whether the file could not be decoded
func (r *FileReport) Failed() bool {
	return r.Status == StatusFailed
}

// Session decodes files from a filesystem. Every call to Inspect uses a
// fresh decoder, so files never share state.
type Session struct {
	fs     afero.Fs
	logger *utils.Logger
	opts   Options
}

// NewSession creates a session reading from fs
func NewSession(fs afero.Fs, logger *utils.Logger, opts Options) *Session {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Session{
		fs:     fs,
		logger: logger,
		opts:   opts,
	}
}

// Inspect loads path, decodes its header and program header table and
// returns the report. It never returns nil; failures are carried in the
// report's Error and Status.
func (s *Session) Inspect(path string) *FileReport {
	start := time.Now()
	log := s.logger.WithFile("inspect", path)
	report := &FileReport{Path: path}

	fail := func(err error) *FileReport {
		report.Error = err
		report.Status = StatusFailed
		report.Duration = time.Since(start)
		log.WithError(err).Error("Decode failed")
		return report
	}

	log.WithField("termination", s.opts.Termination.String()).Debug("Decoding file")

	buf, err := elf.LoadFile(s.fs, path, s.opts.MaxFileSize)
	if err != nil {
		return fail(errors.WithStack(err))
	}
	report.Size = buf.Len()

	decoder := elf.NewDecoder(buf, elf.WithTermination(s.opts.Termination))

	header, err := decoder.Header()
	if err != nil {
		return fail(errors.Wrapf(err, "%s: file header", path))
	}

	// a header whose table cannot be read is not reported
	table, err := decoder.ProgramHeaders(header)
	if err != nil {
		report.Diagnostics = decoder.Diagnostics()
		return fail(errors.Wrapf(err, "%s: program header table at 0x%x", path, header.ProgramHeaderOffset))
	}
	report.Header = header
	report.ProgramHeaders = table
	report.Diagnostics = decoder.Diagnostics()

	for _, d := range report.Diagnostics {
		log.WithFields(logrus.Fields{
			"kind":    d.Kind.String(),
			"offset":  d.Offset,
			"entsize": header.ProgramHeaderEntrySize,
		}).Warn(d.Error())
	}

	report.Status = StatusDecoded
	if len(report.Diagnostics) > 0 {
		if s.opts.Strict {
			return fail(errors.Wrapf(report.Diagnostics[0], "%s: %d diagnostic(s) in strict mode", path, len(report.Diagnostics)))
		}
		report.Status = StatusWarning
	}

	report.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"machine":         header.Machine.String(),
		"program_headers": len(table),
		"duration":        report.Duration,
	}).Debug("Decoded file")
	return report
}
