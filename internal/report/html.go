// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"html/template"
	"io"
	"strings"

	"github.com/hqsandbox/True-Citation/pkg/types"
)

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"label":   verdictLabel,
	"joins":   func(ss []string) string { return strings.Join(ss, ", ") },
	"bibtex":  func(s *types.Suggestion) string { return s.BibTeX() },
	"yearstr": yearOrUnknown,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Citation Verification Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 1000px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
.container { background: white; padding: 30px; border-radius: 8px; }
.summary { display: flex; gap: 20px; margin: 20px 0; }
.stat { flex: 1; padding: 20px; border-radius: 8px; text-align: center; }
.stat h2 { margin: 0; font-size: 2em; }
.verified { background: #d4edda; color: #155724; }
.suspicious { background: #fff3cd; color: #856404; }
.error { background: #f8d7da; color: #721c24; }
.result { border: 1px solid #ddd; border-radius: 8px; margin: 15px 0; overflow: hidden; }
.result-header { padding: 12px 15px; font-weight: bold; }
.result-body { padding: 15px; }
.bibtex { background: #f8f9fa; padding: 15px; border-radius: 4px; font-family: monospace; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="container">
<h1>Citation Verification Report</h1>
<p>Run {{.RunID}}, generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
<div class="summary">
<div class="stat verified"><h2>{{.Summary.Verified}}</h2><p>Verified</p></div>
<div class="stat suspicious"><h2>{{.Summary.Suspicious}}</h2><p>Suspicious</p></div>
<div class="stat error"><h2>{{.Summary.Errors}}</h2><p>Error</p></div>
</div>
{{range .Results}}
<div class="result">
<div class="result-header {{.Verdict}}">[{{.Record.Key}}] {{.Record.Title}} <span style="float:right">{{label .Verdict}}</span></div>
<div class="result-body">
<p><strong>Authors:</strong> {{joins .Record.Authors}}</p>
<p><strong>Year:</strong> {{yearstr .Record.Year}}</p>
<p><strong>Verdict:</strong> {{.Reason}}</p>
{{with .BestCandidate}}
<p><strong>Best match ({{.Source}}):</strong></p>
<ul>
<li>Title: {{.Title}}</li>
<li>Confidence: {{printf "%.2f" .Confidence}}</li>
{{if .URL}}<li>URL: <a href="{{.URL}}">{{.URL}}</a></li>{{end}}
</ul>
{{end}}
{{with .SuggestedCorrection}}
<p><strong>Suggested correction:</strong></p>
<div class="bibtex">{{bibtex .}}</div>
{{else}}
{{if ne (label .Verdict) "VERIFIED"}}<p><strong>Suggested correction:</strong> no confident match found</p>{{end}}
{{end}}
</div>
</div>
{{end}}
</div>
</body>
</html>
`))

// WriteHTML renders the report as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	return htmlTmpl.Execute(w, r)
}
