package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"seoaudit/audit"
	"seoaudit/internal/analytics"
	"seoaudit/internal/pipeline"
)

const topQueryRows = 10

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"join":         strings.Join,
	"presence":     presence,
	"titleLabel":   audit.TitleLabel,
	"metaLabel":    audit.MetaLabel,
	"headingLabel": audit.HeadingLabel,
	"loadLabel":    audit.LoadLabel,
	"label":        label,
	"css":          func(value string) template.CSS { return template.CSS(value) },
	"topQueries": func(rows []analytics.SearchRow) []analytics.SearchRow {
		return rows[:min(len(rows), topQueryRows)]
	},
}).ParseFS(templates, "templates/report.html.tmpl"))

type htmlReport struct {
	*pipeline.Outcome
	PreparedFor string
}

// HTML writes a standalone report document. preparedFor may be empty.
func HTML(w io.Writer, outcome *pipeline.Outcome, preparedFor string) error {
	if outcome == nil || outcome.Result == nil {
		return fmt.Errorf("render html: empty outcome")
	}

	if err := reportTemplate.Execute(w, htmlReport{Outcome: outcome, PreparedFor: preparedFor}); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	return nil
}

func presence(ok bool) string {
	if ok {
		return "Present"
	}

	return "Missing"
}

func label(value string) template.HTML {
	class := "label-" + strings.ReplaceAll(value, " ", "-")

	return template.HTML(fmt.Sprintf(`<span class="%s">%s</span>`,
		template.HTMLEscapeString(class), template.HTMLEscapeString(value)))
}
