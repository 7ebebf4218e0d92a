package usecase

import (
	"github.com/cbroglie/mustache"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
)

func init() {
	// Unknown placeholders are rejected instead of rendering as empty text.
	mustache.AllowMissingVariables = false
}

// TemplateVars holds the values available to message and tag templates
type TemplateVars map[string]string

// RenderTemplate renders a mustache template such as "Release {{ version }}".
// Values are not HTML escaped. Referencing a key missing from vars is a
// validation error.
func RenderTemplate(tmpl string, vars TemplateVars) (string, error) {
	parsed, err := mustache.ParseStringRaw(tmpl, true)
	if err != nil {
		return "", goerr.Wrap(err, "invalid template",
			goerr.V("template", tmpl),
			goerr.T(types.TagValidation),
		)
	}

	out, err := parsed.Render(map[string]string(vars))
	if err != nil {
		return "", goerr.Wrap(err, "failed to render template",
			goerr.V("template", tmpl),
			goerr.T(types.TagValidation),
		)
	}
	return out, nil
}

// ValidateTemplates renders the message and tag templates with sample values
// so a broken template fails before any command runs.
func ValidateTemplates(cfg model.Config) error {
	sample := TemplateVars{
		"version":   "0.0.0",
		"directory": "package",
		"name":      "package",
	}
	for _, tmpl := range []string{cfg.MessageTemplate, cfg.TagTemplate} {
		if _, err := RenderTemplate(tmpl, sample); err != nil {
			return err
		}
	}
	return nil
}
