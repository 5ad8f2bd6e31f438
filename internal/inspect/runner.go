package inspect

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/raven-betanet/elf-decoder/internal/utils"
)

// Runner decodes a list of files one after another
type Runner struct {
	session *Session
	logger  *utils.Logger
}

// NewRunner creates a new runner
func NewRunner(session *Session, logger *utils.Logger) *Runner {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Runner{
		session: session,
		logger:  logger,
	}
}

// BatchReport contains the results of decoding multiple files
type BatchReport struct {
	Files   []*FileReport `json:"files"`
	Summary BatchSummary  `json:"summary"`
}

// BatchSummary contains summary statistics for a batch.
// Decoded counts every file that decoded, including those with warnings.
type BatchSummary struct {
	Total    int `json:"total"`
	Decoded  int `json:"decoded"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// RunAll decodes every path in order. The report always covers the files
// that were attempted; the returned error combines every per-file failure.
// Cancelling ctx stops the batch before the next file.
func (r *Runner) RunAll(ctx context.Context, paths []string) (*BatchReport, error) {
	var result *multierror.Error
	files := make([]*FileReport, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "stopped before %s", path))
			break
		}

		report := r.session.Inspect(path)
		files = append(files, report)
		if report.Error != nil {
			result = multierror.Append(result, report.Error)
		}
	}

	summary := r.calculateSummary(files)
	r.logger.WithComponent("inspect").WithFields(logrus.Fields{
		"total":    summary.Total,
		"decoded":  summary.Decoded,
		"failed":   summary.Failed,
		"warnings": summary.Warnings,
	}).Info("Decode complete")

	return &BatchReport{
		Files:   files,
		Summary: summary,
	}, result.ErrorOrNil()
}

// calculateSummary calculates summary statistics from file reports
func (r *Runner) calculateSummary(files []*FileReport) BatchSummary {
	summary := BatchSummary{Total: len(files)}

	for _, f := range files {
		switch f.Status {
		case StatusDecoded:
			summary.Decoded++
		case StatusWarning:
			summary.Decoded++
			summary.Warnings++
		case StatusFailed:
			summary.Failed++
		}
	}

	return summary
}
