package bibstrip

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultIndent is the indent written before each field line.
const DefaultIndent = "  "

// Printer writes records back in BibTeX form.
type Printer struct {
	Indent string
}

// Print writes n, a *Record or *File, to w using DefaultIndent.
func Print(w io.Writer, n any) error {
	return Printer{Indent: DefaultIndent}.Fprint(w, n)
}

// Fprint writes n, a *Record or *File, to w. Each record is followed by a
// blank line.
func (p Printer) Fprint(w io.Writer, n any) error {
	switch n := n.(type) {
	case *File:
		for _, rec := range n.Records {
			if err := p.Fprint(w, rec); err != nil {
				return err
			}
		}
		return nil
	case *Record:
		return p.writeLines(w, p.Lines(n))
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
}

// Lines returns the output lines of rec, each ending in a newline.
func (p Printer) Lines(rec *Record) []string {
	fields := rec.Fields()
	lines := make([]string, 0, len(fields)+2)
	lines = append(lines, "@"+rec.Type()+"{"+rec.Label()+",\n")
	for _, fld := range fields {
		lines = append(lines, p.Indent+fld.key+" = "+fld.value+",\n")
	}
	// no comma after the last line; with no fields this is the @ line
	last := len(lines) - 1
	lines[last] = strings.TrimRight(lines[last], ",\n") + "\n"
	return append(lines, "}\n\n")
}

func (p Printer) writeLines(w io.Writer, lines []string) error {
	if bw, ok := w.(*bufio.Writer); ok {
		return writeStrings(bw, lines)
	}
	bw := bufio.NewWriter(w)
	if err := writeStrings(bw, lines); err != nil {
		return err
	}
	return bw.Flush()
}

func writeStrings(w io.StringWriter, lines []string) error {
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}
