package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/raven-betanet/elf-decoder/internal/elf"
	"github.com/raven-betanet/elf-decoder/internal/inspect"
)

// TextReporter prints a human readable report. With Color set, values are
// colored unless color output is globally disabled (not a terminal, NO_COLOR).
type TextReporter struct {
	Color bool
}

type palette struct {
	value  *color.Color
	name   *color.Color
	warn   *color.Color
	err    *color.Color
	header *color.Color
	table  bool
}

func (r *TextReporter) palette() palette {
	p := palette{
		value:  color.New(color.FgHiGreen),
		name:   color.New(color.FgHiMagenta),
		warn:   color.New(color.FgYellow),
		err:    color.New(color.FgRed, color.Bold),
		header: color.New(color.Bold),
		table:  r.Color && !color.NoColor,
	}
	if !r.Color {
		for _, c := range []*color.Color{p.value, p.name, p.warn, p.err, p.header} {
			c.DisableColor()
		}
	}
	return p
}

// Render implements Reporter
func (r *TextReporter) Render(w io.Writer, batch *inspect.BatchReport) error {
	p := r.palette()

	for _, f := range batch.Files {
		if err := r.renderFile(w, p, f); err != nil {
			return err
		}
	}

	s := batch.Summary
	_, err := fmt.Fprintf(w, "Summary: %d file(s), %d decoded, %d failed, %d with warnings\n",
		s.Total, s.Decoded, s.Failed, s.Warnings)
	return err
}

func (r *TextReporter) renderFile(w io.Writer, p palette, f *inspect.FileReport) error {
	fmt.Fprintf(w, "\n%s\n\n", p.header.Sprintf("Decoding %s:", f.Path))

	if f.Header != nil {
		renderHeader(w, p, f.Header)
	}

	if len(f.ProgramHeaders) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.header.Sprint("Program Headers:"))
		renderProgramHeaders(w, p, f.ProgramHeaders)
	} else if f.Header != nil && !f.Header.HasProgramHeaders() {
		fmt.Fprintln(w, "\nThere are no program headers in this file.")
	}

	for _, d := range f.Diagnostics {
		fmt.Fprintf(w, "%s %s\n", p.warn.Sprint("warning:"), d.Error())
	}
	if f.Error != nil {
		fmt.Fprintf(w, "%s %v\n", p.err.Sprint("error:"), f.Error)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func renderHeader(w io.Writer, p palette, h *elf.Header) {
	line := func(label, value, desc string) {
		out := "\t" + fmt.Sprintf("%-38s", label+":") + p.value.Sprint(value)
		if desc != "" {
			out += " (" + p.name.Sprint(desc) + ")"
		}
		fmt.Fprintln(w, out)
	}
	bytes := func(v uint16) string { return strconv.Itoa(int(v)) + " bytes" }
	entries := func(v uint16) string { return strconv.Itoa(int(v)) + " entries" }

	line("ELF Signature", fmt.Sprintf("%X", h.Magic), "")
	line("ELF Bit Type", hex32(uint32(h.Class)), h.Class.String())
	line("ELF Endianess", hex32(uint32(h.Encoding)), h.Encoding.String())
	line("ELF Version", hex32(h.Version), "")
	line("ELF File Type", hex32(uint32(h.Type)), h.Type.String())
	line("ELF Machine Type", hex32(uint32(h.Machine)), h.Machine.String())
	line("ELF Entry", hex32(h.Entry), "")
	line("ELF Program Header Offset", hex32(h.ProgramHeaderOffset), "")
	line("ELF Section Header Offset", hex32(h.SectionHeaderOffset), "")
	line("ELF Flags", hex32(h.Flags), "")
	line("ELF Header Size", hex32(uint32(h.HeaderSize)), bytes(h.HeaderSize))
	line("ELF Program Header Entry Size", hex32(uint32(h.ProgramHeaderEntrySize)), bytes(h.ProgramHeaderEntrySize))
	line("ELF Program Header Entry Amount", hex32(uint32(h.ProgramHeaderCount)), entries(h.ProgramHeaderCount))
	line("ELF Section Header Size", hex32(uint32(h.SectionHeaderEntrySize)), bytes(h.SectionHeaderEntrySize))
	line("ELF Section Header Entry Amount", hex32(uint32(h.SectionHeaderCount)), entries(h.SectionHeaderCount))
	line("ELF Section Header String Table Index", hex32(uint32(h.SectionHeaderStringIndex)), "")
}

var programHeaderColumns = []string{"#", "Type", "Offset", "VirtAddr", "PhysAddr", "FileSiz", "MemSiz", "Flg", "Align"}

func renderProgramHeaders(w io.Writer, p palette, table elf.ProgramHeaderTable) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(programHeaderColumns)
	tw.SetAutoFormatHeaders(false)
	tw.SetBorder(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	if p.table {
		headerColors := make([]tablewriter.Colors, len(programHeaderColumns))
		for i := range headerColors {
			headerColors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor}
		}
		tw.SetHeaderColor(headerColors...)
	}

	for i, e := range table {
		tw.Append([]string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%s (%s)", hex32(uint32(e.Type)), e.Type),
			hex32(e.Offset),
			hex32(e.VirtualAddress),
			hex32(e.PhysicalAddress),
			hex32(e.FileSize),
			hex32(e.MemorySize),
			e.Flags.String(),
			hex32(e.Align),
		})
	}
	tw.Render()
}
