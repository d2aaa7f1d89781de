// Package prompts holds the named prompt templates sent to the completion backend.
package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Name identifies a template in the catalog.
type Name string

const (
	ResumeValidation         Name = "resume-validation"
	JobDescriptionValidation Name = "job-description-validation"
	Compatibility            Name = "compatibility"
	Suggestions              Name = "suggestions"
	BulletPoints             Name = "bullet-points"
	EntityExtraction         Name = "entity-extraction"
	InterviewSynthesis       Name = "interview-search-synthesis"
)

// Placeholder names shared by the templates.
const (
	ResumeText     = "resume_text"
	JobDescription = "job_description"
	CompanyName    = "company_name"
	JobTitle       = "job_title"
	SearchResults  = "search_results"
)

//go:embed templates/*.md
var templateFS embed.FS

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\s*\}\}`)

// Definition declares a template before its text is loaded.
type Definition struct {
	Name         Name
	Placeholders []string
}

// Definitions lists every template shipped with the binary.
var Definitions = []Definition{
	{Name: ResumeValidation, Placeholders: []string{ResumeText}},
	{Name: JobDescriptionValidation, Placeholders: []string{JobDescription}},
	{Name: Compatibility, Placeholders: []string{ResumeText, JobDescription}},
	{Name: Suggestions, Placeholders: []string{ResumeText, JobDescription}},
	{Name: BulletPoints, Placeholders: []string{JobDescription}},
	{Name: EntityExtraction, Placeholders: []string{JobDescription}},
	{Name: InterviewSynthesis, Placeholders: []string{CompanyName, JobTitle, SearchResults}},
}

// Catalog is a read-only lookup of templates by name.
type Catalog struct {
	templates map[Name]Template
}

// UnknownTemplateError is returned by Get for a name the catalog does not hold.
type UnknownTemplateError struct {
	Name Name
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown prompt template %q", e.Name)
}

// New builds a catalog from definitions and template texts keyed by name.
// Every placeholder used in a text must be declared and every declared
// placeholder must be used.
func New(defs []Definition, texts map[Name]string) (*Catalog, error) {
	c := &Catalog{templates: make(map[Name]Template, len(defs))}

	for _, def := range defs {
		text, ok := texts[def.Name]
		if !ok {
			return nil, fmt.Errorf("template %q: text not found", def.Name)
		}

		tmpl, err := NewTemplate(def.Name, text, def.Placeholders...)
		if err != nil {
			return nil, err
		}

		if _, exists := c.templates[def.Name]; exists {
			return nil, fmt.Errorf("template %q: declared twice", def.Name)
		}
		c.templates[def.Name] = tmpl
	}

	return c, nil
}

// Get returns the template registered under name.
func (c *Catalog) Get(name Name) (Template, error) {
	tmpl, ok := c.templates[name]
	if !ok {
		return Template{}, &UnknownTemplateError{Name: name}
	}
	return tmpl, nil
}

// Names returns the registered template names in sorted order.
func (c *Catalog) Names() []Name {
	names := make([]Name, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog of embedded templates. It panics if an embedded
// template breaks the placeholder invariant, since that is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		texts := make(map[Name]string, len(Definitions))
		for _, def := range Definitions {
			data, err := templateFS.ReadFile("templates/" + string(def.Name) + ".md")
			if err != nil {
				panic(fmt.Sprintf("reading embedded template %q: %v", def.Name, err))
			}
			texts[def.Name] = string(data)
		}

		c, err := New(Definitions, texts)
		if err != nil {
			panic(fmt.Sprintf("building prompt catalog: %v", err))
		}
		defaultCatalog = c
	})

	return defaultCatalog
}

func referencedPlaceholders(text string) []string {
	var found []string
	for _, match := range placeholderRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		if !slices.Contains(found, name) {
			found = append(found, name)
		}
	}
	return found
}
