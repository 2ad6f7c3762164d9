package wizard

import (
	"fmt"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// Action ids understood by the HTTP layer.
const (
	ActionStart          = "start"
	ActionChooseLanguage = "language"
	ActionChooseTopic    = "topic"
	ActionReset          = "reset"
)

// Option is one selectable choice in the current step.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Custom bool   `json:"custom,omitempty"`
}

// Action is a control offered to the user.
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CopyField is a piece of text the user can copy to the clipboard.
type CopyField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Section is one block of the results view.
type Section struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Copy   *CopyField  `json:"copy,omitempty"`
	Fields []CopyField `json:"fields,omitempty"`
}

// View describes what to show for a Snapshot.
type View struct {
	Step        Step      `json:"step"`
	Badge       string    `json:"badge,omitempty"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Tagline     string    `json:"tagline,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Busy        bool      `json:"busy"`
	Sections    []Section `json:"sections,omitempty"`
	Error       string    `json:"error,omitempty"`
	Actions     []Action  `json:"actions,omitempty"`
}

// Render projects a snapshot onto the view shown for it. It has no side
// effects and the same snapshot always yields the same view.
func Render(s Snapshot) View {
	switch s.Step {
	case StepIdle:
		return View{
			Step:     s.Step,
			Badge:    "Breaking News",
			Title:    "CREATE VIRAL PROPHECIES",
			Subtitle: "Generate alarmist, journalistic scripts in the style of The Simpsons tailored for TikTok.",
			Tagline:  "High engagement. Low risk.",
			Actions:  []Action{{ID: ActionStart, Label: "START GENERATOR"}},
		}

	case StepAwaitingLanguage:
		languages := domain.Languages()
		options := make([]Option, 0, len(languages))
		for _, lang := range languages {
			options = append(options, Option{ID: lang.String(), Label: lang.String()})
		}
		return View{
			Step:     s.Step,
			Title:    "SELECT LANGUAGE",
			Subtitle: "In which language do you want the prophecy?",
			Options:  options,
			Actions:  []Action{{ID: ActionChooseLanguage, Label: "SELECT LANGUAGE"}},
		}

	case StepAwaitingTopic:
		categories := domain.Categories()
		options := make([]Option, 0, len(categories))
		for _, c := range categories {
			options = append(options, Option{ID: c.ID, Label: c.Label, Custom: c.Custom})
		}
		return View{
			Step:        s.Step,
			Title:       "CHOOSE THE THEME OF BREAKING NEWS",
			Subtitle:    "What is the topic of the script?",
			Options:     options,
			Placeholder: "e.g., Simpsons predicted 2025 lottery...",
			Actions:     []Action{{ID: ActionChooseTopic, Label: "GENERATE SCRIPT"}},
		}

	case StepGenerating:
		return View{
			Step:     s.Step,
			Title:    "CONSULTING THE CRYSTAL BALL...",
			Subtitle: "Analyzing viral patterns & conspiracy theories",
			Busy:     true,
		}

	case StepResults:
		return View{
			Step:     s.Step,
			Title:    "MISSION ACCOMPLISHED",
			Sections: resultSections(s.Result),
			Actions:  []Action{{ID: ActionReset, Label: "NEW CONSPIRACY"}},
		}

	case StepError:
		return View{
			Step:    s.Step,
			Title:   "TRANSMISSION FAILED",
			Error:   s.ErrorMessage,
			Actions: []Action{{ID: ActionReset, Label: "TRY AGAIN"}},
		}
	}

	return View{Step: s.Step, Title: "UNKNOWN STEP"}
}

func resultSections(r *domain.ScriptResponse) []Section {
	if r == nil {
		return nil
	}

	prompts := make([]CopyField, 0, len(r.ImagePrompts))
	for i, p := range r.ImagePrompts {
		prompts = append(prompts, CopyField{
			ID:    fmt.Sprintf("prompt_%d", i+1),
			Label: fmt.Sprintf("#%d", i+1),
			Text:  p,
		})
	}

	headlines := make([]CopyField, 0, len(r.Headlines))
	for i, h := range r.Headlines {
		headlines = append(headlines, CopyField{
			ID:    fmt.Sprintf("headline_%d", i+1),
			Label: h.Score,
			Text:  h.Text(),
		})
	}

	return []Section{
		{
			ID:    "script",
			Title: "STEP 1: BREAKING NEWS SCRIPT",
			Copy:  &CopyField{ID: "script", Label: "Script", Text: r.Script},
		},
		{
			ID:     "prompts",
			Title:  fmt.Sprintf("STEP 2: %d IMAGE PROMPTS", len(r.ImagePrompts)),
			Copy:   &CopyField{ID: "prompts", Label: "All prompts", Text: r.PromptsText()},
			Fields: prompts,
		},
		{
			ID:     "headlines",
			Title:  "STEP 3: VIRAL HEADLINES",
			Fields: headlines,
		},
		{
			ID:    "caption",
			Title: "STEP 4: CAPTION",
			Copy:  &CopyField{ID: "caption", Label: "Caption", Text: r.Description.CaptionText()},
		},
		{
			ID:     "risk",
			Title:  "RISK ASSESSMENT",
			Fields: []CopyField{{ID: "risk", Label: "TikTok Ban Risk Level", Text: r.Risk}},
		},
	}
}
