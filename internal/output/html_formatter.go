package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rpgo/glidepath/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with one history table per leg.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"split":  FormatSplit,
	"status": termination,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.SimulationReport
		Recommendation Recommendation
		Assumptions    []string
	}{report, AnalyzeOutcomes(report), GenerateAssumptions(report)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
