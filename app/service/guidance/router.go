package guidance

import (
	"strings"

	_ "embed"

	"github.com/tmc/langchaingo/prompts"
)

//go:embed templates/fear.txt
var fearTemplate string

//go:embed templates/anxiety.txt
var anxietyTemplate string

//go:embed templates/discomfort.txt
var discomfortTemplate string

//go:embed templates/help.txt
var helpTemplate string

//go:embed templates/emergency.txt
var emergencyTemplate string

//go:embed templates/threat.txt
var threatTemplate string

//go:embed templates/isolation.txt
var isolationTemplate string

//go:embed templates/safety_check.txt
var safetyCheckTemplate string

//go:embed templates/area_check.txt
var areaCheckTemplate string

//go:embed templates/general.txt
var generalTemplate string

const previewLength = 80

// Template binds a trigger keyword to its canned guidance text. Keyword is
// empty for the generic fallback.
type Template struct {
	Keyword string
	Body    string
}

// Trigger order is fixed and load-bearing: a message containing several
// triggers always resolves to the earliest entry in this list.
var triggers = []struct {
	keyword string
	body    string
}{
	{"scared", fearTemplate},
	{"anxious", anxietyTemplate},
	{"afraid", fearTemplate},
	{"uncomfortable", discomfortTemplate},
	{"help", helpTemplate},
	{"emergency", emergencyTemplate},
	{"followed", threatTemplate},
	{"alone", isolationTemplate},
	{"safe", safetyCheckTemplate},
	{"area", areaCheckTemplate},
}

var generalPrompt = prompts.NewPromptTemplate(generalTemplate, []string{"message"})

// Route picks the canned guidance bound to the first trigger found as a
// case-folded substring of the message. Total function, never fails.
func Route(message string) Template {
	folded := strings.ToLower(message)

	for _, t := range triggers {
		if strings.Contains(folded, t.keyword) {
			return Template{
				Keyword: t.keyword,
				Body:    t.body,
			}
		}
	}

	body, err := generalPrompt.Format(map[string]any{
		"message": truncate(message, previewLength),
	})
	if err != nil {
		body = generalTemplate
	}

	return Template{Body: body}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
