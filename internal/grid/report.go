package grid

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// DefaultReportName is the report file written under the output root.
const DefaultReportName = "report.html"

// Report is the comparison grid document
type Report struct {
	Title  string
	Powers []string
	Rows   []Row
}

// Row holds one bucket's cells, one per power
type Row struct {
	Cutoff int
	Cells  []Cell
}

// Cell is a thumbnail linking to its full-size frame
type Cell struct {
	Thumbnail string
	Image     string
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><th>cutoff \ power</th>{{range .Powers}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr><th>{{.Cutoff}}</th>{{range .Cells}}<td><a href="{{.Image}}"><img src="{{.Thumbnail}}"></a></td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`))

// Render returns the report as HTML.
func (r Report) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReport renders r to path, replacing any previous report in one
// rename. The same report always produces the same bytes.
func WriteReport(path string, r Report) error {
	data, err := r.Render()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
