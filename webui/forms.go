package webui

import (
	"fmt"

	"github.com/productivity-engines/website/core/usage"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/pkg/config"
	"github.com/productivity-engines/website/services/sales"
)

var contactFields = []config.Field{
	{Name: "name", Type: config.FieldTypeText, Label: "Full Name", Required: true},
	{Name: "email", Type: config.FieldTypeEmail, Label: "Email Address", Required: true},
	{Name: "company", Type: config.FieldTypeText, Label: "Company Name", Required: true},
	{Name: "phone", Type: config.FieldTypeTel, Label: "Phone Number"},
	{Name: "position", Type: config.FieldTypeText, Label: "Your Position", Placeholder: "Your Position"},
	{
		Name:        "message",
		Type:        config.FieldTypeTextarea,
		Label:       "How can we help?",
		Required:    true,
		Rows:        5,
		Placeholder: "Tell us about your business challenges and what you're looking to achieve with automation.",
	},
}

var loginFields = []config.Field{
	{Name: "email", Type: config.FieldTypeEmail, Label: "Email address", Required: true, Placeholder: "you@example.com"},
	{Name: "password", Type: "password", Label: "Password", Required: true},
}

var agentFields = []config.Field{
	{Name: "name", Type: config.FieldTypeText, Label: "Agent Name", Required: true, RequiredMessage: "Agent name is required"},
	{Name: "description", Type: config.FieldTypeTextarea, Label: "Description", Rows: 3},
	{
		Name:            "type",
		Type:            config.FieldTypeText,
		Label:           "Agent Type",
		Required:        true,
		RequiredMessage: "Agent type is required",
		Placeholder:     "marketing-agent",
		HelpText:        "Used as the page address: /dashboard/<type>",
	},
	{Name: "icon", Type: config.FieldTypeURL, Label: "Icon URL"},
	{Name: "is_public", Type: config.FieldTypeCheckbox, Label: "Public (visible to all users)", DefaultValue: true},
}

var categoryFields = []config.Field{
	{Name: "category_name", Type: config.FieldTypeText, Label: "Category Name", Required: true, RequiredMessage: "Category name is required"},
	{Name: "category_description", Type: config.FieldTypeText, Label: "Description"},
}

var deployFields = []config.Field{
	{Name: "subdomain", Type: config.FieldTypeText, Label: "Subdomain", Required: true, RequiredMessage: "Please enter a subdomain", HelpText: "Lowercase letters, numbers and hyphens"},
	{Name: "version", Type: config.FieldTypeText, Label: "Version", Placeholder: "1.0.0"},
	{Name: "replit_url", Type: config.FieldTypeURL, Label: "Replit URL", Required: true, RequiredMessage: "Please enter the Replit URL"},
}

var marketingFields = []config.Field{
	{Name: "business_name", Type: config.FieldTypeText, Label: "Business Name", Required: true, RequiredMessage: "Business name and website URL are required"},
	{Name: "website_url", Type: config.FieldTypeURL, Label: "Website URL", Required: true, RequiredMessage: "Business name and website URL are required", Placeholder: "https://example.com"},
	config.Field{Name: "model", Type: config.FieldTypeSelect, Label: "Model", DefaultValue: agentclient.DefaultModel}.WithOptions(
		config.FieldOption{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
		config.FieldOption{Value: "gpt-4", Label: "GPT-4"},
		config.FieldOption{Value: "gpt-4o", Label: "GPT-4o"},
	),
	{Name: "temperature", Type: config.FieldTypeNumber, Label: "Temperature", DefaultValue: agentclient.DefaultTemperature, Min: 0, Max: 1, Step: 0.1},
	{Name: "previous_response", Type: config.FieldTypeTextarea, Label: "Previous Analysis (optional)", Rows: 4, HelpText: "Paste an earlier analysis to refine it"},
}

var salesFields = []config.Field{
	{Name: "prospect_name", Type: config.FieldTypeText, Label: "Prospect Name", Required: true, RequiredMessage: "Please fill in all required fields"},
	{Name: "company", Type: config.FieldTypeText, Label: "Company", Required: true, RequiredMessage: "Please fill in all required fields"},
	{Name: "industry", Type: config.FieldTypeText, Label: "Industry"},
	{Name: "pain_points", Type: config.FieldTypeTextarea, Label: "Pain Points", Rows: 3},
	{Name: "previous_interactions", Type: config.FieldTypeTextarea, Label: "Previous Interactions", Rows: 3},
	config.Field{Name: "goal", Type: config.FieldTypeSelect, Label: "Email Goal", DefaultValue: sales.GoalIntroduction}.WithOptions(goalOptions()...),
}

func goalOptions() []config.FieldOption {
	opts := []config.FieldOption{}
	for _, g := range sales.Goals {
		opts = append(opts, config.FieldOption{Value: g.Value, Label: g.Label})
	}
	return opts
}

func rangeOptions() []config.FieldOption {
	opts := []config.FieldOption{}
	for _, r := range usage.Ranges {
		opts = append(opts, config.FieldOption{Value: string(r), Label: r.Label()})
	}
	return opts
}

// formValues collects the submitted values of fields.
func formValues(fields []config.Field, get func(string) string) map[string]string {
	values := map[string]string{}
	for _, f := range fields {
		values[f.Name] = get(f.Name)
	}
	return values
}

func defaultValues(fields []config.Field) map[string]string {
	values := map[string]string{}
	for _, f := range fields {
		if f.DefaultValue == nil {
			continue
		}
		if f.Type == config.FieldTypeCheckbox {
			if b, ok := f.DefaultValue.(bool); ok && b {
				values[f.Name] = "on"
			}
			continue
		}
		values[f.Name] = fmt.Sprint(f.DefaultValue)
	}
	return values
}
