// Package sales drafts outreach emails for the sales enablement agent.
package sales

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/productivity-engines/website/core/types"
)

const (
	GoalIntroduction = "introduction"
	GoalFollowUp     = "followup"
	GoalMeeting      = "meeting"
)

// Goal is one selectable kind of email.
type Goal struct {
	Value string
	Label string
}

var Goals = []Goal{
	{GoalIntroduction, "Initial Outreach"},
	{GoalFollowUp, "Follow-up Email"},
	{GoalMeeting, "Meeting Request"},
}

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("sales").Funcs(sprig.TxtFuncMap()).ParseFS(templatesFS, "templates/*.tmpl"))

// Request is the submitted sales agent form.
type Request struct {
	ProspectName         string `json:"prospect_name"`
	Company              string `json:"company"`
	Industry             string `json:"industry"`
	PainPoints           string `json:"pain_points"`
	PreviousInteractions string `json:"previous_interactions"`
	Goal                 string `json:"goal"`
}

type meetingData struct {
	Request
	Agenda []string
	Slots  []string
}

// Draft renders the email for the request's goal. Unknown goals fall back
// to an introduction.
func Draft(r Request) (string, error) {
	r.ProspectName = strings.TrimSpace(r.ProspectName)
	r.Company = strings.TrimSpace(r.Company)
	r.Industry = strings.TrimSpace(r.Industry)
	r.PainPoints = strings.TrimSpace(r.PainPoints)
	r.PreviousInteractions = strings.TrimSpace(r.PreviousInteractions)
	if r.ProspectName == "" || r.Company == "" {
		return "", types.Invalid("Please fill in all required fields")
	}

	var data any = r
	name := GoalIntroduction
	switch r.Goal {
	case GoalFollowUp:
		name = GoalFollowUp
	case GoalMeeting:
		name = GoalMeeting
		industry := r.Industry
		if industry == "" {
			industry = "your"
		}
		data = meetingData{
			Request: r,
			Agenda: []string{
				"Your current workflow and specific pain points",
				fmt.Sprintf("Our approach to automation in the %s industry", industry),
				"Implementation timeline and expected ROI",
				"Next steps and pricing options",
			},
			Slots: []string{
				"Tuesday, 2:00 PM - 2:30 PM ET",
				"Wednesday, 10:00 AM - 10:30 AM ET",
				"Thursday, 4:00 PM - 4:30 PM ET",
			},
		}
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to draft email: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}
