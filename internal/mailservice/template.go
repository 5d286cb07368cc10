package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

func NewTemplate() *Template {
	return &Template{}
}

// ParseTemplate renders the subject, plainBody and htmlBody blocks of the
// named template file with data.
func (tp *Template) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	t, err := template.New(name).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	render := func(block string) (*bytes.Buffer, error) {
		buf := new(bytes.Buffer)
		if err := t.ExecuteTemplate(buf, block, data); err != nil {
			return nil, fmt.Errorf("render %s block of %s: %w", block, name, err)
		}
		return buf, nil
	}

	subject, err := render("subject")
	if err != nil {
		return nil, nil, nil, err
	}

	plainBody, err := render("plainBody")
	if err != nil {
		return nil, nil, nil, err
	}

	htmlBody, err := render("htmlBody")
	if err != nil {
		return nil, nil, nil, err
	}

	return subject, plainBody, htmlBody, nil
}
