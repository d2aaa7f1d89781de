package prompts

import (
	"fmt"
	"slices"
	"strings"
)

// Bindings maps placeholder names to the values substituted into a template.
type Bindings map[string]string

// Template is a prompt text with named {{placeholder}} markers.
type Template struct {
	Name         Name
	Text         string
	Placeholders []string
}

// BindingError reports placeholders that were not supplied by the caller.
type BindingError struct {
	Template Name
	Missing  []string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("template %q: missing bindings for %s", e.Template, strings.Join(e.Missing, ", "))
}

// NewTemplate validates that the declared placeholders match the ones used in text.
func NewTemplate(name Name, text string, placeholders ...string) (Template, error) {
	if strings.TrimSpace(text) == "" {
		return Template{}, fmt.Errorf("template %q: text is empty", name)
	}

	used := referencedPlaceholders(text)

	for _, p := range used {
		if !slices.Contains(placeholders, p) {
			return Template{}, fmt.Errorf("template %q: placeholder %q is used but not declared", name, p)
		}
	}
	for _, p := range placeholders {
		if !slices.Contains(used, p) {
			return Template{}, fmt.Errorf("template %q: placeholder %q is declared but not used", name, p)
		}
	}

	return Template{
		Name:         name,
		Text:         text,
		Placeholders: slices.Clone(placeholders),
	}, nil
}

// Render substitutes every declared placeholder. Bindings that the template
// does not declare are ignored.
func (t Template) Render(bindings Bindings) (string, error) {
	var missing []string
	for _, p := range t.Placeholders {
		if _, ok := bindings[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return "", &BindingError{Template: t.Name, Missing: missing}
	}

	rendered := placeholderRe.ReplaceAllStringFunc(t.Text, func(marker string) string {
		name := strings.TrimSpace(placeholderRe.FindStringSubmatch(marker)[1])
		return bindings[name]
	})

	return strings.TrimSpace(rendered), nil
}
