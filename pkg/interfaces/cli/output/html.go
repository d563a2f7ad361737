package output

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/vsinha/rateio/pkg/application/dto"
	"github.com/vsinha/rateio/pkg/domain/entities"
)

// HTMLReport renders a standalone HTML page of a run
type HTMLReport struct {
	Title string
	tmpl  *template.Template
}

type htmlCarrier struct {
	Name     string
	Sequence []entities.LoadNumber
	Loads    []htmlLoad
}

type htmlLoad struct {
	Number entities.LoadNumber
	dto.LoadData
}

type htmlPage struct {
	Title       string
	GeneratedAt string
	Result      *dto.RateioResult
	Carriers    []htmlCarrier
}

const reportTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
td.num { text-align: right; }
.warnings li { color: #a15c00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Run {{.Result.RunID}} &middot; {{.GeneratedAt}} &middot; {{.Result.Documents}} documents</p>
{{range .Carriers}}
<h2>{{.Name}}</h2>
<p>Sequence: {{range $i, $n := .Sequence}}{{if $i}} &rarr; {{end}}{{$n}}{{end}}</p>
{{range .Loads}}
<h3>Load {{.Number}} &middot; {{.LicensePlate}} &middot; R$ {{money .TotalPrice}}</h3>
<table>
<tr><th>Client</th><th>Invoices</th><th>Quantity</th><th>Cubicage (m3)</th><th>Price (R$)</th></tr>
{{range .Deliveries}}<tr><td>{{.To}}</td><td>{{join .Danfe}}</td><td class="num">{{.Quantity}}</td><td class="num">{{volume .Cubicage}}</td><td class="num">{{money .Price}}</td></tr>
{{end}}</table>
{{end}}{{end}}
{{if .Result.Warnings}}<h2>Warnings</h2>
<ul class="warnings">{{range .Result.Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}
</body>
</html>
`

// NewHTMLReport creates a report renderer
func NewHTMLReport() *HTMLReport {
	funcs := template.FuncMap{
		"money":  money,
		"volume": volume,
		"join":   func(invoices []string) string { return strings.Join(invoices, ", ") },
	}
	return &HTMLReport{
		Title: "Rateio de frete",
		tmpl:  template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
	}
}

// Render returns the HTML page of result
func (r *HTMLReport) Render(result *dto.RateioResult) (string, error) {
	data := result.Data()
	page := htmlPage{
		Title:       r.Title,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Result:      result,
	}

	for _, name := range result.Carriers.Names() {
		carrier := htmlCarrier{Name: name, Sequence: data.Loads[name].Sequence}
		for _, number := range result.Carriers[name].LoadNumbers() {
			carrier.Loads = append(carrier.Loads, htmlLoad{Number: number, LoadData: data.Loads[name].Loads[number]})
		}
		page.Carriers = append(page.Carriers, carrier)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}

func generateHTMLOutput(result *dto.RateioResult, config Config) error {
	page, err := NewHTMLReport().Render(result)
	if err != nil {
		return err
	}
	return emit(config, "rateio_report.html", []byte(page))
}
