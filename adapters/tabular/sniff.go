package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"strings"
)

// Candidates are tried in this order; ties go to the earlier one
var Candidates = []rune{'\t', ',', ';', '|'}

const sniffLines = 20

// SniffDelimiter picks the candidate that splits every sampled line into
// the same number of fields, preferring the one giving the most fields.
// It falls back to a comma when nothing splits consistently.
func SniffDelimiter(sample []byte) rune {
	lines := sampleLines(sample, sniffLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestFields := ',', 1
	for _, sep := range Candidates {
		fields, ok := consistentFields(lines, sep)
		if ok && fields > bestFields {
			best, bestFields = sep, fields
		}
	}
	return best
}

func sampleLines(sample []byte, max int) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(sample))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(lines) < max {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	// the last line of a truncated sample may be partial
	if len(lines) > 2 && len(sample) >= sniffBytes {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func consistentFields(lines []string, sep rune) (int, bool) {
	fields := -1
	for _, line := range lines {
		r := csv.NewReader(strings.NewReader(line))
		r.Comma = sep
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		rec, err := r.Read()
		if err != nil {
			return 0, false
		}
		if fields == -1 {
			fields = len(rec)
		} else if len(rec) != fields {
			return 0, false
		}
	}
	return fields, fields > 1
}
