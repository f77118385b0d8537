package content

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/gkj-pamulang/panitia/internal/static"
)

// Terminal renders markdown for a terminal of a given width.
type Terminal struct {
	r *glamour.TermRenderer
}

// NewTerminal creates a renderer. Style is a glamour style name
// ("dark", "light", "notty") or "auto" to detect the background.
func NewTerminal(width int, style string) (*Terminal, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("content: creating renderer: %w", err)
	}
	return &Terminal{r: r}, nil
}

// Render renders a markdown document.
func (t *Terminal) Render(src string) (string, error) {
	out, err := t.r.Render(src)
	if err != nil {
		return "", fmt.Errorf("content: rendering: %w", err)
	}
	return out, nil
}

func stageMarker(s static.StageStatus) string {
	switch s {
	case static.StageDone:
		return "✓"
	case static.StageCurrent:
		return "▶"
	default:
		return "○"
	}
}

// TimelineMarkdown lays the calling timeline out as one document.
func TimelineMarkdown(ds *static.Dataset) string {
	var b strings.Builder
	b.WriteString("# Tahapan Pemanggilan\n\n")
	for _, s := range ds.Timeline {
		fmt.Fprintf(&b, "## %s %s · %s\n\n", stageMarker(s.Status), s.Date, s.Title)
		b.WriteString(strings.TrimSpace(s.Description))
		b.WriteString("\n\n")
	}
	return b.String()
}

// CommitteeMarkdown lays out the committee roster.
func CommitteeMarkdown(ds *static.Dataset) string {
	c := ds.Committee
	var b strings.Builder
	b.WriteString("# Panitia Pemanggilan Pendeta\n\n")

	b.WriteString("## Dasar Penetapan\n\n")
	for _, d := range c.Decrees {
		fmt.Fprintf(&b, "* %s No.: %s tanggal %s\n", d.Title, d.Number, d.Date)
	}
	fmt.Fprintf(&b, "\n**Tugas pokok:** %s\n\n", c.Mandate)
	fmt.Fprintf(&b, "**Masa bakti:** %s – %s\n\n", c.Term.Start, c.Term.End)

	b.WriteString("## Panitia Inti\n\n| Jabatan | Nama |\n|---|---|\n")
	for _, m := range c.Core {
		fmt.Fprintf(&b, "| %s | %s |\n", m.Position, m.Name)
	}

	b.WriteString("\n## Anggota\n\n")
	for _, d := range c.Divisions {
		fmt.Fprintf(&b, "**%s**\n\n", d.Name)
		for _, m := range d.Members {
			fmt.Fprintf(&b, "* %s\n", m)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Kontak\n\n* Telepon: %s\n* Email: %s\n* Alamat: %s\n",
		c.Contact.Phone, c.Contact.Email, c.Contact.Address)
	return b.String()
}

// CandidateMarkdown lays out the candidate profile.
func CandidateMarkdown(ds *static.Dataset) string {
	c := ds.Candidate
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n## Pendidikan\n\n", c.Name)
	for _, e := range c.Education {
		fmt.Fprintf(&b, "* %s\n", e)
	}
	b.WriteString("\n## Pengalaman\n\n")
	for _, e := range c.Experience {
		fmt.Fprintf(&b, "* %s\n", e)
	}
	b.WriteString("\n## Profil\n\n")
	b.WriteString(strings.TrimSpace(c.Bio))
	b.WriteString("\n")
	return b.String()
}
