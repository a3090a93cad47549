// Package render writes a finished audit in the supported output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"

	"seoaudit/audit"
	"seoaudit/internal/pipeline"
)

// Format names an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatTable Format = "table"
)

// ParseFormat accepts json, text and table, case-insensitively.
func ParseFormat(value string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(value))); format {
	case FormatJSON, FormatText, FormatTable:
		return format, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q: want json, text or table", value)
	}
}

// Write renders outcome to w in the given format.
func Write(w io.Writer, format Format, outcome *pipeline.Outcome) error {
	switch format {
	case FormatText:
		return Text(w, outcome)
	case FormatTable:
		return Table(w, outcome)
	default:
		_, err := w.Write(JSON(outcome, true))
		return err
	}
}

// JSON marshals the outcome. The output always ends with a newline.
func JSON(outcome *pipeline.Outcome, indent bool) []byte {
	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(outcome, "", "  ")
	} else {
		data, err = json.Marshal(outcome)
	}

	if err != nil {
		data = []byte(`{"error":"failed to marshal report"}`)
	}

	return ensureNewline(data)
}

func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}

	return data
}

// Text writes the brief followed by the score and the recommendations.
func Text(w io.Writer, outcome *pipeline.Outcome) error {
	var b strings.Builder

	b.WriteString(audit.Brief(outcome.Result))
	fmt.Fprintf(&b, "\nSEO SCORE: %d/100 (%s)\n", outcome.Result.Score, outcome.Band.Label)
	writeTail(&b, outcome)

	_, err := io.WriteString(w, b.String())

	return err
}

// Table writes one row per page followed by the score.
func Table(w io.Writer, outcome *pipeline.Outcome) error {
	tbl := table.New("Page", "Title", "Meta", "H1", "Load (s)", "Size (KB)", "Schema", "Alt missing").WithWriter(w)

	for _, page := range outcome.Result.Pages {
		schema := "-"
		if len(page.SchemaTypes) > 0 {
			schema = strings.Join(page.SchemaTypes, ", ")
		}

		tbl.AddRow(
			page.Name,
			page.TitleLength,
			page.MetaLength,
			page.H1Count,
			fmt.Sprintf("%.2f", page.LoadTimeSeconds),
			fmt.Sprintf("%.2f", page.PageSizeKB),
			schema,
			fmt.Sprintf("%d/%d", page.Resources.ImagesWithoutAlt, page.Resources.TotalImages),
		)
	}

	tbl.Print()

	var b strings.Builder
	fmt.Fprintf(&b, "\nrobots.txt: %s  sitemap: %s  blog: %s\n",
		yesNo(outcome.Result.Technical.HasRobotsTxt),
		yesNo(outcome.Result.Technical.HasSitemap),
		yesNo(outcome.Result.HasBlog))
	fmt.Fprintf(&b, "SEO SCORE: %d/100 (%s)\n", outcome.Result.Score, outcome.Band.Label)
	writeTail(&b, outcome)

	_, err := io.WriteString(w, b.String())

	return err
}

func writeTail(b *strings.Builder, outcome *pipeline.Outcome) {
	if outcome.Recommendations != "" {
		b.WriteString("\nRECOMMENDATIONS\n")
		b.WriteString(strings.TrimRight(outcome.Recommendations, "\n"))
		b.WriteString("\n")
	}

	for _, notice := range outcome.Notices {
		fmt.Fprintf(b, "\nNote: %s\n", notice)
	}
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}

	return "no"
}
