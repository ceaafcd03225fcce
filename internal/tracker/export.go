// ABOUTME: Export and import for 90-day progress.
// ABOUTME: Supports the JSON download document, YAML, Markdown, and an HTML print report.
package tracker

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/harperreed/salesquest/internal/models"
	"gopkg.in/yaml.v3"
)

// Document is the JSON download and import format.
type Document struct {
	Contacts     []int `json:"contacts"`
	Appointments []int `json:"appointments"`
}

// NewDocument projects progress into the download format.
func NewDocument(p models.Progress) Document {
	return Document{
		Contacts:     append([]int(nil), p.Contacts[:]...),
		Appointments: append([]int(nil), p.Appointments[:]...),
	}
}

// Progress converts a document back, rejecting wrong lengths and negative counts.
func (d Document) Progress() (models.Progress, error) {
	if len(d.Contacts) != models.TotalDays || len(d.Appointments) != models.TotalDays {
		return models.Progress{}, fmt.Errorf("%w: expected %d days of contacts and appointments, got %d and %d",
			ErrInvalidInput, models.TotalDays, len(d.Contacts), len(d.Appointments))
	}
	p := models.Progress{
		Contacts:     models.SequenceFromSlice(d.Contacts),
		Appointments: models.SequenceFromSlice(d.Appointments),
	}
	if err := p.Validate(); err != nil {
		return models.Progress{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return p, nil
}

// ExportJSON renders the download document.
func ExportJSON(p models.Progress) ([]byte, error) {
	return json.MarshalIndent(NewDocument(p), "", "  ")
}

// ParseJSON decodes and validates a download document.
func ParseJSON(data []byte) (models.Progress, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Progress{}, fmt.Errorf("%w: unmarshal JSON: %w", ErrInvalidInput, err)
	}
	return doc.Progress()
}

type yamlExport struct {
	Version    string             `yaml:"version"`
	ExportedAt string             `yaml:"exported_at"`
	Tool       string             `yaml:"tool"`
	Totals     models.Totals      `yaml:"totals"`
	Weekly     []models.WeekTotal `yaml:"weekly"`
	Daily      []dayRow           `yaml:"daily"`
}

type dayRow struct {
	Day          int `yaml:"day"`
	Contacts     int `yaml:"contacts"`
	Appointments int `yaml:"appointments"`
}

// ExportYAML renders a full export with totals, weekly rollup, and active days.
func ExportYAML(p models.Progress, now time.Time) ([]byte, error) {
	out := yamlExport{
		Version:    "1.0",
		ExportedAt: now.Format(time.RFC3339),
		Tool:       "salesquest",
		Totals:     p.Totals(),
		Weekly:     p.Weekly(),
	}
	for i := range models.TotalDays {
		if p.Contacts[i] == 0 && p.Appointments[i] == 0 {
			continue
		}
		out.Daily = append(out.Daily, dayRow{Day: i + 1, Contacts: p.Contacts[i], Appointments: p.Appointments[i]})
	}
	return yaml.Marshal(out)
}

// ExportMarkdown renders a summary, weekly table, and daily table.
func ExportMarkdown(p models.Progress, now time.Time) string {
	var sb strings.Builder
	totals := p.Totals()

	sb.WriteString(fmt.Sprintf("# 90-Day Sales Progress - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- Total Contacts: %d\n", totals.Contacts))
	sb.WriteString(fmt.Sprintf("- Total Appointments: %d\n\n", totals.Appointments))

	sb.WriteString("## Weekly Progress\n\n")
	sb.WriteString("| Week | Days | Contacts | Appointments |\n")
	sb.WriteString("|------|------|----------|--------------|\n")
	for _, w := range p.Weekly() {
		sb.WriteString(fmt.Sprintf("| Week %d | %d-%d | %d | %d |\n",
			w.Week, w.FirstDay+1, w.LastDay()+1, w.Contacts, w.Appointments))
	}

	sb.WriteString("\n## Daily Breakdown\n\n")
	sb.WriteString("| Day | Contacts | Appointments |\n")
	sb.WriteString("|-----|----------|--------------|\n")
	for i := range models.TotalDays {
		sb.WriteString(fmt.Sprintf("| Day %d | %d | %d |\n", i+1, p.Contacts[i], p.Appointments[i]))
	}

	return sb.String()
}

var reportTemplate = template.Must(template.New("report").Parse(`<html>
<head>
<title>90-Day Sales Progress Report</title>
<style>
body { font-family: Arial, sans-serif; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid black; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
</style>
</head>
<body>
<h1>90-Day Sales Progress Report</h1>
<h2>Summary</h2>
<p>Total Contacts: {{.Totals.Contacts}}</p>
<p>Total Appointments: {{.Totals.Appointments}}</p>
<h2>Daily Breakdown</h2>
<table>
<tr><th>Day</th><th>Contacts</th><th>Appointments</th></tr>
{{- range .Days}}
<tr><td>Day {{.Day}}</td><td>{{.Contacts}}</td><td>{{.Appointments}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// ExportHTML renders the printable report.
func ExportHTML(p models.Progress) ([]byte, error) {
	days := make([]dayRow, models.TotalDays)
	for i := range days {
		days[i] = dayRow{Day: i + 1, Contacts: p.Contacts[i], Appointments: p.Appointments[i]}
	}

	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		Totals models.Totals
		Days   []dayRow
	}{p.Totals(), days})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
