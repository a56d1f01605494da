package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaystat/ports"
)

func sampleReport() ports.Report {
	return ports.Report{
		Title: "assay.txt",
		Sections: []ports.ReportSection{
			{
				Heading: "Two-way ANOVA",
				Notes:   []string{"value ~ genotype * treatment"},
				Records: [][]string{
					{"", "SS", "df"},
					{"genotype", "60.75", "1"},
					{"a|b", "1"},
				},
			},
			{Heading: "Outputs", Notes: []string{"assay_anova.csv"}},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.Contains(t, md, "# assay.txt\n")
	assert.Contains(t, md, "## Two-way ANOVA\n")
	assert.Contains(t, md, "|  | SS | df |\n| --- | --- | --- |\n")
	assert.Contains(t, md, `| a\|b | 1 |  |`)
	assert.Contains(t, md, "## Outputs\n\nassay_anova.csv\n")
}

func TestWriteReport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "assay")

	paths, err := NewWriter(true, nil).WriteReport(context.Background(), base, sampleReport())
	require.NoError(t, err)
	require.Equal(t, []string{base + "_report.md", base + "_report.html"}, paths)

	page, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>assay.txt</title>")
	assert.Contains(t, string(page), "<table>")
	assert.Contains(t, string(page), "60.75")
}

func TestWriteReport_MarkdownOnly(t *testing.T) {
	base := filepath.Join(t.TempDir(), "assay")

	paths, err := NewWriter(false, nil).WriteReport(context.Background(), base, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, []string{base + "_report.md"}, paths)
	assert.NoFileExists(t, base+"_report.html")
}

func TestWriteReport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWriter(true, nil).WriteReport(ctx, filepath.Join(t.TempDir(), "assay"), sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
}
