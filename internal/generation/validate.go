package generation

import (
	"fmt"
	"strings"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// Validate applies the content rules the model is asked to follow but is not
// trusted to honor: non-empty script, caption and risk, and the exact number
// of image prompts and headlines. Word counts, hashtag counts and the risk
// ceiling stay advisory.
//
// It returns nil or an error wrapping ErrMalformedResponse that lists every
// violation found.
func Validate(resp *domain.ScriptResponse) error {
	if resp == nil {
		return fmt.Errorf("%w: response is nil", ErrMalformedResponse)
	}

	var problems []string

	if strings.TrimSpace(resp.Script) == "" {
		problems = append(problems, "script is empty")
	}

	if len(resp.ImagePrompts) != domain.ImagePromptCount {
		problems = append(problems, fmt.Sprintf("expected %d image prompts, got %d",
			domain.ImagePromptCount, len(resp.ImagePrompts)))
	}
	for i, p := range resp.ImagePrompts {
		if strings.TrimSpace(p) == "" {
			problems = append(problems, fmt.Sprintf("image prompt %d is empty", i))
		}
	}

	if len(resp.Headlines) != domain.HeadlineCount {
		problems = append(problems, fmt.Sprintf("expected %d headlines, got %d",
			domain.HeadlineCount, len(resp.Headlines)))
	}
	for i, h := range resp.Headlines {
		if strings.TrimSpace(h.Headline) == "" {
			problems = append(problems, fmt.Sprintf("headline %d is empty", i))
		}
	}

	if strings.TrimSpace(resp.Description.Copy) == "" {
		problems = append(problems, "description copy is empty")
	}

	if strings.TrimSpace(resp.Risk) == "" {
		problems = append(problems, "risk is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(problems, "; "))
	}
	return nil
}
