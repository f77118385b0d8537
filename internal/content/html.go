// Package content renders the committee's markdown content: to HTML for
// the data service and to styled text for the terminal.
package content

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gkj-pamulang/panitia/internal/static"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts markdown to HTML. Raw HTML in the source is not passed
// through.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("content: rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Excerpt returns the text of the first paragraph of an HTML fragment,
// cut to at most max runes.
func Excerpt(html string, max int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Find("p").First().Text()), " ")
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:max-1])) + "…"
}

// StagePage is a timeline stage with its description rendered.
type StagePage struct {
	static.Stage
	HTML    string `json:"html"`
	Excerpt string `json:"excerpt"`
}

// CandidatePage is the candidate profile with the bio rendered.
type CandidatePage struct {
	static.Candidate
	BioHTML string `json:"bio_html"`
}

// Page is the rendered site content.
type Page struct {
	Hero      static.Hero      `json:"hero"`
	Timeline  []StagePage      `json:"timeline"`
	Committee static.Committee `json:"committee"`
	Candidate CandidatePage    `json:"candidate"`
}

const excerptLen = 160

// Build renders every markdown field of ds.
func Build(ds *static.Dataset) (*Page, error) {
	p := &Page{
		Hero:      ds.Hero,
		Committee: ds.Committee,
		Timeline:  make([]StagePage, 0, len(ds.Timeline)),
	}
	for _, s := range ds.Timeline {
		h, err := HTML(s.Description)
		if err != nil {
			return nil, fmt.Errorf("content: stage %q: %w", s.Title, err)
		}
		p.Timeline = append(p.Timeline, StagePage{Stage: s, HTML: h, Excerpt: Excerpt(h, excerptLen)})
	}

	bio, err := HTML(ds.Candidate.Bio)
	if err != nil {
		return nil, fmt.Errorf("content: candidate bio: %w", err)
	}
	p.Candidate = CandidatePage{Candidate: ds.Candidate, BioHTML: bio}
	return p, nil
}
