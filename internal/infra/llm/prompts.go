package llm

import (
	"bytes"
	"text/template"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/utils/text"
)

// summaryRunes bounds the article summary included in a prompt.
const summaryRunes = 400

var classifyTemplate = template.Must(template.New("classify").Parse(
	`You screen startup news for a daily digest of new funding rounds raised by Swedish companies.

Answer YES if the article reports that a specific company has raised, secured or closed a new round of funding (equity, venture debt or grants). Answer NO for anything else, including new venture funds, acquisitions, layoffs, bankruptcies, IPO plans and opinion pieces.

Headline: {{.Headline}}
Source: {{.Source}}
{{- if .Summary}}
Summary: {{.Summary}}
{{- end}}

Reply with exactly one word: YES or NO.`))

var extractTemplate = template.Must(template.New("extract").Parse(
	`The article below reports a funding round. Name the company that received the money.

Headline: {{.Headline}}
{{- if .Summary}}
Summary: {{.Summary}}
{{- end}}

Reply with the company name only, exactly as written in the article, without legal suffixes, quotes or explanation. If no company is named, reply UNKNOWN.`))

type promptData struct {
	Headline string
	Source   string
	Summary  string
}

func render(tmpl *template.Template, article entity.RawArticle) (string, error) {
	data := promptData{
		Headline: text.CollapseSpace(article.Headline),
		Source:   article.Source,
		Summary:  text.Truncate(text.CollapseSpace(article.Summary), summaryRunes),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
