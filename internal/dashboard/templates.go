// internal/dashboard/templates.go
package dashboard

import "html/template"

// pageView is the single template input: either Doc is set or Message
// describes the error state.
type pageView struct {
	Date    string
	State   LoadState
	Message string
	Doc     *modelsDoc
}

// modelsDoc is re-declared here only to keep the template surface flat.
type modelsDoc struct {
	TotalTweetsAnalyzed  int
	ProductRequestsFound int
	InputTokens          int
	OutputTokens         int
	TotalTokens          int
	Requests             []requestView
}

type requestView struct {
	Category       string
	Description    string
	PainPoint      string
	TargetAudience string
	UrgencyLevel   string
	Tweets         []tweetView
}

type tweetView struct {
	ID              string
	Text            string
	UserHandle      string
	CreatedAt       string
	EngagementScore int
	URL             string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Product Ideas — {{.Date}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 920px; color: #1f2430; }
h1 { font-size: 1.4rem; }
form { margin-bottom: 1.5rem; }
.cards { display: flex; gap: 1rem; margin-bottom: 2rem; }
.card { flex: 1; border: 1px solid #d9dce3; border-radius: 8px; padding: 1rem; }
.card .value { font-size: 1.6rem; font-weight: 600; }
.card .label { color: #6b7280; font-size: 0.85rem; }
.request { border: 1px solid #d9dce3; border-radius: 8px; padding: 1rem 1.2rem; margin-bottom: 1.2rem; }
.request h2 { font-size: 1.1rem; margin: 0 0 0.4rem; }
.urgency { display: inline-block; border-radius: 4px; padding: 0.1rem 0.5rem; font-size: 0.8rem; }
.urgency.High { background: #fde2e2; }
.urgency.Medium { background: #fdf3d7; }
.urgency.Low { background: #e1f0e5; }
.tweet { border-top: 1px solid #eef0f4; padding: 0.6rem 0; font-size: 0.9rem; }
.tweet .meta { color: #6b7280; font-size: 0.8rem; }
.error { border: 1px solid #f0c3c3; background: #fdf4f4; border-radius: 8px; padding: 1.2rem; }
</style>
</head>
<body>
<h1>Product Ideas — {{.Date}}</h1>
<form method="get" action="/">
<label>Date (DDMMYY): <input name="date" value="{{.Date}}" pattern="[0-9]{6}"></label>
<button type="submit">Load</button>
</form>
{{if .Doc}}
<div class="cards">
<div class="card"><div class="value">{{.Doc.TotalTweetsAnalyzed}}</div><div class="label">tweets analyzed</div></div>
<div class="card"><div class="value">{{.Doc.ProductRequestsFound}}</div><div class="label">product requests</div></div>
<div class="card"><div class="value">{{.Doc.TotalTokens}}</div><div class="label">tokens ({{.Doc.InputTokens}} in / {{.Doc.OutputTokens}} out)</div></div>
</div>
{{range .Doc.Requests}}
<div class="request">
<h2>{{.Category}} <span class="urgency {{.UrgencyLevel}}">{{.UrgencyLevel}}</span></h2>
<p>{{.Description}}</p>
<p><strong>Pain point:</strong> {{.PainPoint}}</p>
<p><strong>Target audience:</strong> {{.TargetAudience}}</p>
{{range .Tweets}}
<div class="tweet">
<div>{{.Text}}</div>
<div class="meta">@{{.UserHandle}} · {{.CreatedAt}} · engagement {{.EngagementScore}}{{if .URL}} · <a href="{{.URL}}">view</a>{{end}}</div>
</div>
{{end}}
</div>
{{else}}
<p>No product requests were found for this day.</p>
{{end}}
{{else}}
<div class="error">{{.Message}}</div>
{{end}}
</body>
</html>
`))
