package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

// htmlPage is the QC report document, shared by single- and multi-report
// rendering: one table row per neuron.
const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, sans-serif; font-size: 18px; }
  table { width: 100%; border-collapse: collapse; font-size: 18px; }
  table, th, td { border: 1px solid black; }
  th, td { padding: 5px; text-align: left; }
  th { background-color: #f2f2f2; }
  img { max-width: {{.ImageWidth}}px; height: auto; }
  .error { color: red; font-weight: bold; }
  .no-error { color: green; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
  <tr>
    <th>Neuron</th>
    <th>QC Errors</th>
    <th>Soma MIP</th>
    <th>Tool Version</th>
  </tr>
{{- range .Rows}}
  <tr>
    <td><b>{{.Neuron}}</b></td>
    {{- if .Findings}}
    <td class="error"><ul>
      {{- range .Findings}}
      <li><b>{{.Test}}:</b> {{.Description}}{{if .NodesWithError}} (Nodes: {{range $i, $n := .NodesWithError}}{{if $i}}, {{end}}{{$n}}{{end}}){{end}}</li>
      {{- end}}
    </ul></td>
    {{- else}}
    <td class="no-error"><span class="no-error">No errors found</span></td>
    {{- end}}
    {{- if .MIP}}
    <td><img src="{{.MIP}}" alt="Soma MIP"></td>
    {{- else}}
    <td>No Image Available</td>
    {{- end}}
    <td>{{.Version}}</td>
  </tr>
{{- end}}
</table>
</body>
</html>
`

var pageTemplate = template.Must(template.New("qc").Parse(htmlPage))

type pageData struct {
	Title      string
	ImageWidth int
	Rows       []pageRow
}

type pageRow struct {
	Neuron   string
	Findings []Finding
	MIP      string
	Version  string
}

// RenderHTML writes a QC report page for a single report.
func RenderHTML(w io.Writer, r Report) error {
	return renderPage(w, fmt.Sprintf("QC Report for %s", filepath.Base(r.InputFile)), 256, []Report{r})
}

// RenderBatchHTML writes one QC report page covering every report in order.
// Use this for multi-file runs; per-file validation is not re-run.
func RenderBatchHTML(w io.Writer, reports []Report) error {
	return renderPage(w, "SWC QC Report", 128, reports)
}

// WriteHTMLFile renders reports to the file at path, choosing the single or
// batch layout based on count.
func WriteHTMLFile(path string, reports []Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if len(reports) == 1 {
		return RenderHTML(f, reports[0])
	}
	return RenderBatchHTML(f, reports)
}

func renderPage(w io.Writer, title string, imageWidth int, reports []Report) error {
	data := pageData{Title: title, ImageWidth: imageWidth}
	for _, r := range reports {
		data.Rows = append(data.Rows, pageRow{
			Neuron:   filepath.Base(r.InputFile),
			Findings: r.Findings,
			MIP:      r.PathToMIP,
			Version:  r.ToolVersion,
		})
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render report page: %w", err)
	}
	return nil
}
