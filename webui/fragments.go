package webui

import (
	"fmt"
	"html"
	"html/template"

	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"

	models "github.com/productivity-engines/website/dbmodels"
)

var badgeClasses = map[string]string{
	models.DeploymentActive:  "badge badge-green",
	models.DeploymentPending: "badge badge-yellow",
	models.DeploymentFailed:  "badge badge-red",
	models.DeploymentStopped: "badge badge-gray",
	"public":                 "badge badge-green",
	"private":                "badge badge-gray",
}

// statusBadge renders a colored label for a deployment or visibility status.
func statusBadge(status string) template.HTML {
	class, ok := badgeClasses[status]
	if !ok {
		class = "badge badge-gray"
	}
	return template.HTML(elem.Span(attrs.Props{"class": class, "data-status": status},
		elem.Text(html.EscapeString(status)),
	).Render())
}

// flashBox renders an inline message; kind is "error" or "success".
// Views pass missing keys through as nil, which renders nothing.
func flashBox(kind string, message any) template.HTML {
	var text string
	switch m := message.(type) {
	case nil:
	case string:
		text = m
	case error:
		text = m.Error()
	default:
		text = fmt.Sprint(m)
	}
	if text == "" {
		return ""
	}
	return template.HTML(elem.Div(attrs.Props{"class": "flash flash-" + kind, "role": "alert"},
		elem.Text(html.EscapeString(text)),
	).Render())
}

// usageBar renders the percentage cell of the usage table.
func usageBar(percentage float64) template.HTML {
	return template.HTML(elem.Div(attrs.Props{"class": "usage-bar"},
		elem.Span(nil, elem.Text(fmt.Sprintf("%.1f%%", percentage))),
		elem.Div(attrs.Props{"class": "usage-bar-track"},
			elem.Div(attrs.Props{"class": "usage-bar-fill", "style": fmt.Sprintf("width: %.1f%%", percentage)}),
		),
	).Render())
}

func visibilityBadge(a models.AgentConfig) template.HTML {
	if a.IsPublic {
		return statusBadge("public")
	}
	return statusBadge("private")
}
