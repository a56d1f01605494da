package report

import (
	"strings"

	"assaystat/ports"
)

// Markdown renders r as a GitHub-flavoured markdown document. The first
// record of every section is its table header.
func Markdown(r ports.Report) string {
	var b strings.Builder
	b.WriteString("# " + r.Title + "\n")

	for _, s := range r.Sections {
		b.WriteString("\n## " + s.Heading + "\n\n")
		for _, note := range s.Notes {
			b.WriteString(note + "\n\n")
		}
		if len(s.Records) > 0 {
			writeTable(&b, s.Records)
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, records [][]string) {
	width := len(records[0])
	writeRow(b, records[0], width)

	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep, width)

	for _, r := range records[1:] {
		writeRow(b, r, width)
	}
}

func writeRow(b *strings.Builder, cells []string, width int) {
	b.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(cells) {
			cell = escapeCell(cells[i])
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
