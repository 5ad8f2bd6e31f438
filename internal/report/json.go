package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/raven-betanet/elf-decoder/internal/elf"
	"github.com/raven-betanet/elf-decoder/internal/inspect"
)

// JSONReporter writes the batch as indented JSON. Addresses, offsets and
// enumerated values are hex strings; counts and sizes are numbers.
type JSONReporter struct{}

type jsonBatch struct {
	Files   []jsonFile           `json:"files"`
	Summary inspect.BatchSummary `json:"summary"`
}

type jsonFile struct {
	Path           string           `json:"path"`
	Size           int              `json:"size"`
	Status         inspect.Status   `json:"status"`
	Error          string           `json:"error,omitempty"`
	Duration       string           `json:"duration"`
	Header         *jsonHeader      `json:"header,omitempty"`
	ProgramHeaders []jsonEntry      `json:"program_headers"`
	Diagnostics    []jsonDiagnostic `json:"diagnostics,omitempty"`
}

type jsonHeader struct {
	Magic                    string `json:"magic"`
	Class                    string `json:"class"`
	ClassName                string `json:"class_name"`
	Encoding                 string `json:"encoding"`
	EncodingName             string `json:"encoding_name"`
	IdentVersion             string `json:"ident_version"`
	Type                     string `json:"type"`
	TypeName                 string `json:"type_name"`
	Machine                  string `json:"machine"`
	MachineName              string `json:"machine_name"`
	Version                  string `json:"version"`
	Entry                    string `json:"entry"`
	ProgramHeaderOffset      string `json:"phoff"`
	SectionHeaderOffset      string `json:"shoff"`
	Flags                    string `json:"flags"`
	HeaderSize               uint16 `json:"ehsize"`
	ProgramHeaderEntrySize   uint16 `json:"phentsize"`
	ProgramHeaderCount       uint16 `json:"phnum"`
	SectionHeaderEntrySize   uint16 `json:"shentsize"`
	SectionHeaderCount       uint16 `json:"shnum"`
	SectionHeaderStringIndex uint16 `json:"shstrndx"`
}

type jsonEntry struct {
	Type            string `json:"type"`
	TypeName        string `json:"type_name"`
	Offset          string `json:"offset"`
	VirtualAddress  string `json:"vaddr"`
	PhysicalAddress string `json:"paddr"`
	FileSize        string `json:"filesz"`
	MemorySize      string `json:"memsz"`
	Flags           string `json:"flags"`
	FlagNames       string `json:"flag_names"`
	Align           string `json:"align"`
}

type jsonDiagnostic struct {
	Kind     string `json:"kind"`
	Fatal    bool   `json:"fatal"`
	Offset   string `json:"offset"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
}

// Render implements Reporter
func (r *JSONReporter) Render(w io.Writer, batch *inspect.BatchReport) error {
	out := jsonBatch{
		Files:   make([]jsonFile, 0, len(batch.Files)),
		Summary: batch.Summary,
	}
	for _, f := range batch.Files {
		out.Files = append(out.Files, toJSONFile(f))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func toJSONFile(f *inspect.FileReport) jsonFile {
	jf := jsonFile{
		Path:           f.Path,
		Size:           f.Size,
		Status:         f.Status,
		Duration:       f.Duration.String(),
		ProgramHeaders: make([]jsonEntry, 0, len(f.ProgramHeaders)),
	}
	if f.Error != nil {
		jf.Error = f.Error.Error()
	}
	if f.Header != nil {
		jf.Header = toJSONHeader(f.Header)
	}
	for _, e := range f.ProgramHeaders {
		jf.ProgramHeaders = append(jf.ProgramHeaders, jsonEntry{
			Type:            hex32(uint32(e.Type)),
			TypeName:        e.Type.String(),
			Offset:          hex32(e.Offset),
			VirtualAddress:  hex32(e.VirtualAddress),
			PhysicalAddress: hex32(e.PhysicalAddress),
			FileSize:        hex32(e.FileSize),
			MemorySize:      hex32(e.MemorySize),
			Flags:           hex32(uint32(e.Flags)),
			FlagNames:       e.Flags.String(),
			Align:           hex32(e.Align),
		})
	}
	for _, d := range f.Diagnostics {
		jd := jsonDiagnostic{
			Kind:    d.Kind.String(),
			Fatal:   d.Fatal(),
			Offset:  fmt.Sprintf("0x%X", d.Offset),
			Message: d.Error(),
		}
		if d.Expected != 0 || d.Actual != 0 {
			jd.Expected = fmt.Sprintf("0x%X", d.Expected)
			jd.Actual = fmt.Sprintf("0x%X", d.Actual)
		}
		jf.Diagnostics = append(jf.Diagnostics, jd)
	}
	return jf
}

func toJSONHeader(h *elf.Header) *jsonHeader {
	return &jsonHeader{
		Magic:                    hex32(h.Magic),
		Class:                    hex32(uint32(h.Class)),
		ClassName:                h.Class.String(),
		Encoding:                 hex32(uint32(h.Encoding)),
		EncodingName:             h.Encoding.String(),
		IdentVersion:             hex32(uint32(h.Identification.Version)),
		Type:                     hex32(uint32(h.Type)),
		TypeName:                 h.Type.String(),
		Machine:                  hex32(uint32(h.Machine)),
		MachineName:              h.Machine.String(),
		Version:                  hex32(h.Version),
		Entry:                    hex32(h.Entry),
		ProgramHeaderOffset:      hex32(h.ProgramHeaderOffset),
		SectionHeaderOffset:      hex32(h.SectionHeaderOffset),
		Flags:                    hex32(h.Flags),
		HeaderSize:               h.HeaderSize,
		ProgramHeaderEntrySize:   h.ProgramHeaderEntrySize,
		ProgramHeaderCount:       h.ProgramHeaderCount,
		SectionHeaderEntrySize:   h.SectionHeaderEntrySize,
		SectionHeaderCount:       h.SectionHeaderCount,
		SectionHeaderStringIndex: h.SectionHeaderStringIndex,
	}
}
