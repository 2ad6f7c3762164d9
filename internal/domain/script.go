package domain

import "strings"

// Well-known shape of a script package, as requested from the model.
const (
	// ImagePromptCount is the number of image prompts requested per script.
	ImagePromptCount = 20

	// HeadlineCount is the number of headlines requested per script.
	HeadlineCount = 3

	// HashtagCount is the number of hashtags requested in the description.
	HashtagCount = 10

	// ImagePromptStyleSuffix ends every image prompt.
	ImagePromptStyleSuffix = "in the cartoon style of The Simpsons"

	// MinScriptWords is the soft lower bound on the script length.
	MinScriptWords = 200

	// MaxRiskPercent is the risk ceiling the model is asked to stay under.
	MaxRiskPercent = 8
)

// FixedHashtags are always part of the description hashtags.
var FixedHashtags = []string{"#foryou", "#fyp", "#news", "#usa"}

// Headline is one candidate title for the video.
type Headline struct {
	Headline    string `json:"headline"`
	Translation string `json:"translation"`
	Score       string `json:"score"`
}

// VideoDescription is the caption posted with the video.
type VideoDescription struct {
	Copy     string   `json:"copy"`
	Hashtags []string `json:"hashtags"`
}

// ScriptResponse is the structured result of one generation call.
// The JSON field names are the ones the model is asked to produce.
// Once produced, a ScriptResponse is treated as read-only.
type ScriptResponse struct {
	Script       string           `json:"step1_script"`
	ImagePrompts []string         `json:"step2_prompts"`
	Headlines    []Headline       `json:"step3_headlines"`
	Description  VideoDescription `json:"step4_description"`
	Risk         string           `json:"step5_risk"`
}

// PromptsText joins all image prompts with blank lines, the form in which
// they are copied as a batch.
func (r *ScriptResponse) PromptsText() string {
	return strings.Join(r.ImagePrompts, "\n\n")
}

// HashtagsText joins the hashtags with single spaces.
func (d VideoDescription) HashtagsText() string {
	return strings.Join(d.Hashtags, " ")
}

// CaptionText is the caption followed by a blank line and the hashtags.
func (d VideoDescription) CaptionText() string {
	if len(d.Hashtags) == 0 {
		return d.Copy
	}
	return d.Copy + "\n\n" + d.HashtagsText()
}

// Text returns the headline and its translation on separate lines.
func (h Headline) Text() string {
	if h.Translation == "" {
		return h.Headline
	}
	return h.Headline + "\n" + h.Translation
}
