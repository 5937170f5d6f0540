// Package render produces the HTML fragments for chat messages and the
// document registry. Templates are html/template, so user-supplied text is
// escaped by construction and never lands verbatim in markup.
package render

import (
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/niknshinde/Traditional-Rag/internal/ui/format"
)

// Role of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat bubble.
type Message struct {
	Role    Role
	Content string
}

// Document is one registry entry.
type Document struct {
	Name   string
	Size   int64
	Chunks int
}

var funcs = template.FuncMap{
	"humanSize": format.HumanSize,
}

var messageTmpl = template.Must(template.New("message").Parse(
	`<div class="message {{.Role}}"><div class="message-content">{{.Content}}</div></div>`))

var documentTmpl = template.Must(template.New("document").Funcs(funcs).Parse(
	`<li class="document-item"><span class="document-icon">&#128196;</span>` +
		`<span class="document-name">{{.Name}}</span>` +
		`<span class="document-size">{{humanSize .Size}}</span>` +
		`<span class="document-badge">Ready</span></li>`))

var transcriptTmpl = template.Must(template.New("transcript").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">Saved {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>
<h2>Documents</h2>
<ul class="document-list">
{{- range .Documents}}
<li class="document-item"><span class="document-name">{{.Name}}</span> <span class="document-size">{{humanSize .Size}}</span> <span class="document-chunks">{{.Chunks}} chunks</span></li>
{{- end}}
</ul>
<h2>Conversation</h2>
<div class="chat">
{{- range .Messages}}
<div class="message {{.Role}}"><div class="message-content">{{.Content}}</div></div>
{{- end}}
</div>
</body>
</html>
`))

// MessageHTML renders one chat bubble fragment.
func MessageHTML(m Message) (string, error) {
	var b strings.Builder
	if err := messageTmpl.Execute(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DocumentHTML renders one registry entry fragment.
func DocumentHTML(d Document) (string, error) {
	var b strings.Builder
	if err := documentTmpl.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Transcript holds everything the exported session page shows.
type Transcript struct {
	Title       string
	GeneratedAt time.Time
	Documents   []Document
	Messages    []Message
}

// WriteTranscript renders the full session page to w.
func WriteTranscript(w io.Writer, t Transcript) error {
	if t.Title == "" {
		t.Title = "Document Q&A session"
	}
	if t.GeneratedAt.IsZero() {
		t.GeneratedAt = time.Now()
	}
	return transcriptTmpl.Execute(w, t)
}
