// Package render produces the read-only public profile page.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/arlenko/folio/internal/domain"
	"github.com/google/uuid"
)

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	for name, text := range sectionTemplates {
		if _, err := tmpl.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

type pageData struct {
	Profile  *domain.Profile
	Sections []domain.Section
	Active   *domain.Section
	Body     template.HTML
}

// ProfilePage renders the public page. The active section defaults to the
// first one; an activeID that matches no section falls back the same way. A
// section whose type tag is unknown renders nothing.
func (r *Renderer) ProfilePage(w io.Writer, profile *domain.Profile, sections []domain.Section, activeID uuid.UUID) error {
	active := activeSection(sections, activeID)

	var body template.HTML
	if active != nil {
		rendered, err := r.renderSection(active)
		if err != nil {
			return err
		}
		body = rendered
	}

	return r.tmpl.ExecuteTemplate(w, "page", pageData{
		Profile:  profile,
		Sections: sections,
		Active:   active,
		Body:     body,
	})
}

func (r *Renderer) renderSection(section *domain.Section) (template.HTML, error) {
	var name string
	switch section.Type {
	case domain.SectionTextList:
		name = "text_list"
	case domain.SectionLinks:
		name = "links"
	case domain.SectionGallery:
		name = "gallery"
	default:
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, section); err != nil {
		return "", fmt.Errorf("rendering %s section: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func activeSection(sections []domain.Section, activeID uuid.UUID) *domain.Section {
	if len(sections) == 0 {
		return nil
	}
	if activeID != uuid.Nil {
		for i := range sections {
			if sections[i].ID == activeID {
				return &sections[i]
			}
		}
	}
	return &sections[0]
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Profile.DisplayName}} (@{{.Profile.Username}})</title>
</head>
<body class="theme-{{.Profile.Theme}}">
<header>
{{if .Profile.BannerURL}}<img class="banner" src="{{.Profile.BannerURL}}" alt="">{{end}}
{{if .Profile.AvatarURL}}<img class="avatar" src="{{.Profile.AvatarURL}}" alt="">{{end}}
<h1>{{.Profile.DisplayName}}</h1>
<p class="handle">@{{.Profile.Username}}</p>
{{if .Profile.Bio}}<p class="bio">{{.Profile.Bio}}</p>{{end}}
</header>
<nav>
{{range .Sections}}<a href="?section={{.ID}}"{{if eq .ID $.Active.ID}} class="active"{{end}}>{{.Title}}</a>
{{end}}</nav>
<main>
{{.Body}}
</main>
</body>
</html>
`

var sectionTemplates = map[string]string{
	"text_list": `<section class="text-list"><h2>{{.Title}}</h2>
<ul>
{{range .Content.Items}}<li>{{.}}</li>
{{end}}</ul>
</section>`,
	"links": `<section class="links"><h2>{{.Title}}</h2>
<ul>
{{range .Content.Links}}<li><a href="{{.URL}}" rel="noopener">{{.Title}}</a></li>
{{end}}</ul>
</section>`,
	"gallery": `<section class="gallery"><h2>{{.Title}}</h2>
{{range .Content.Images}}<figure><img src="{{.URL}}" alt="{{.Caption}}">{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>
{{end}}</section>`,
}
