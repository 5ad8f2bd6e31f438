package inspect

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raven-betanet/elf-decoder/internal/elf"
	"github.com/raven-betanet/elf-decoder/internal/elf/elftest"
	"github.com/raven-betanet/elf-decoder/internal/utils"
)

func writeFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, data, 0755))
}

func inconsistentHeader() elftest.Header {
	h := elftest.Executable(2)
	h.Phentsize = 0
	return h
}

func TestSessionInspect(t *testing.T) {
	badMagic := elftest.Executable(2)
	badMagic.Magic = [4]byte{0x7F, 'E', 'L', 'G'}

	noTable := elftest.Executable(0)
	noTable.Phoff = 0
	noTable.Phentsize = 0

	tests := []struct {
		name        string
		data        []byte
		opts        Options
		status      Status
		entries     int
		diagnostics int
		hasHeader   bool
		wantErr     error
	}{
		{
			name:      "executable",
			data:      elftest.Image(elftest.Executable(2), elftest.Load, elftest.Null),
			status:    StatusDecoded,
			entries:   2,
			hasHeader: true,
		},
		{
			name:      "no program header table",
			data:      noTable.Bytes(),
			status:    StatusDecoded,
			hasHeader: true,
		},
		{
			name:        "inconsistent layout is a warning",
			data:        elftest.Image(inconsistentHeader(), elftest.Load, elftest.Null),
			status:      StatusWarning,
			entries:     2,
			diagnostics: 1,
			hasHeader:   true,
		},
		{
			name:        "strict mode fails on diagnostics",
			data:        elftest.Image(inconsistentHeader(), elftest.Load, elftest.Null),
			opts:        Options{Strict: true},
			status:      StatusFailed,
			entries:     2,
			diagnostics: 1,
			hasHeader:   true,
			wantErr:     elf.ErrInconsistentProgramHeader,
		},
		{
			name:        "count termination reports premature null",
			data:        elftest.Image(elftest.Executable(3), elftest.Load, elftest.Null, elftest.Load),
			opts:        Options{Termination: elf.TerminateOnCount},
			status:      StatusWarning,
			entries:     3,
			diagnostics: 1,
			hasHeader:   true,
		},
		{
			name:    "bad magic",
			data:    badMagic.Bytes(),
			status:  StatusFailed,
			wantErr: elf.ErrInvalidMagic,
		},
		{
			name:    "truncated program header table",
			data:    append(elftest.Executable(2).Bytes(), elftest.Entry(elftest.Load)[:20]...),
			status:  StatusFailed,
			wantErr: elf.ErrTruncatedInput,
		},
		{
			name:    "empty file",
			data:    []byte{},
			status:  StatusFailed,
			wantErr: elf.ErrTruncatedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "/bin/target", tt.data)

			session := NewSession(fs, utils.NewNopLogger(), tt.opts)
			report := session.Inspect("/bin/target")
			require.NotNil(t, report)

			assert.Equal(t, "/bin/target", report.Path)
			assert.Equal(t, len(tt.data), report.Size)
			assert.Equal(t, tt.status, report.Status)
			assert.Equal(t, tt.status == StatusFailed, report.Failed())
			assert.Len(t, report.ProgramHeaders, tt.entries)
			assert.Len(t, report.Diagnostics, tt.diagnostics)
			assert.Equal(t, tt.hasHeader, report.Header != nil)

			if tt.wantErr == nil {
				assert.NoError(t, report.Error)
				return
			}
			require.Error(t, report.Error)
			assert.True(t, errors.Is(report.Error, tt.wantErr), "got %v", report.Error)
			assert.Contains(t, report.Error.Error(), "/bin/target")
		})
	}
}

func TestSessionErrorCarriesOffsets(t *testing.T) {
	h := elftest.Executable(2)
	h.Ehsize = 0x40

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bin/wide", h.Bytes())

	report := NewSession(fs, nil, Options{}).Inspect("/bin/wide")

	var derr *elf.DecodeError
	require.True(t, errors.As(report.Error, &derr))
	assert.Equal(t, elf.KindInvalidHeaderSize, derr.Kind)
	assert.Equal(t, 40, derr.Offset)
	assert.Equal(t, uint64(elf.HeaderSize), derr.Expected)
	assert.Equal(t, uint64(0x40), derr.Actual)
}

func TestSessionLoadFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bin/big", elftest.Image(elftest.Executable(2), elftest.Load, elftest.Null))

	session := NewSession(fs, nil, Options{MaxFileSize: 64})

	report := session.Inspect("/bin/big")
	assert.Equal(t, StatusFailed, report.Status)
	assert.ErrorContains(t, report.Error, "exceeds limit")
	assert.Nil(t, report.Header)

	report = session.Inspect("/bin/missing")
	assert.Equal(t, StatusFailed, report.Status)
	assert.Error(t, report.Error)
	assert.Zero(t, report.Size)
}

func TestSessionFilesAreIndependent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/a", elftest.Image(inconsistentHeader(), elftest.Load, elftest.Null))
	writeFile(t, fs, "/b", elftest.Image(elftest.Executable(1), elftest.Null))

	session := NewSession(fs, nil, Options{})
	first := session.Inspect("/a")
	second := session.Inspect("/b")

	assert.Len(t, first.Diagnostics, 1)
	assert.Empty(t, second.Diagnostics)
	assert.Equal(t, StatusDecoded, second.Status)
	assert.Equal(t, elf.SegmentNull, second.ProgramHeaders[0].Type)
}
