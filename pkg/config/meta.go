package config

import (
	"fmt"
	"strings"

	"github.com/productivity-engines/website/core/types"
)

type FieldType string

const (
	FieldTypeNumber   FieldType = "number"
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeURL      FieldType = "url"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeHidden   FieldType = "hidden"
)

type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one input of an HTML form. Required fields are checked by
// Validate; RequiredMessage overrides the default "<Label> is required".
type Field struct {
	Name            string        `json:"name"`
	Type            FieldType     `json:"type"`
	Label           string        `json:"label"`
	DefaultValue    any           `json:"defaultValue"`
	Placeholder     string        `json:"placeholder,omitempty"`
	HelpText        string        `json:"helpText,omitempty"`
	Required        bool          `json:"required,omitempty"`
	RequiredMessage string        `json:"requiredMessage,omitempty"`
	Disabled        bool          `json:"disabled,omitempty"`
	Options         []FieldOption `json:"options,omitempty"`
	Rows            int           `json:"rows,omitempty"`
	Min             float32       `json:"min,omitempty"`
	Max             float32       `json:"max,omitempty"`
	Step            float32       `json:"step,omitempty"`
}

// Validate checks that every required field has a non-blank value and
// returns a validation error naming the first one that does not.
func Validate(fields []Field, values map[string]string) error {
	for _, f := range fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(values[f.Name]) != "" {
			continue
		}
		if f.RequiredMessage != "" {
			return types.Invalid(f.RequiredMessage)
		}
		return types.Invalid(fmt.Sprintf("%s is required", f.Label))
	}
	return nil
}

// WithOptions returns a copy of the field with the given select options.
func (f Field) WithOptions(options ...FieldOption) Field {
	f.Options = options
	return f
}
