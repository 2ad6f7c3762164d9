package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// wireScriptResponse mirrors domain.ScriptResponse with pointer fields so that
// absent and null fields can be told apart from empty ones. The nested
// records and array elements use pointers for the same reason.
type wireScriptResponse struct {
	Script       *string          `json:"step1_script"`
	ImagePrompts *[]*string       `json:"step2_prompts"`
	Headlines    *[]*wireHeadline `json:"step3_headlines"`
	Description  *wireDescription `json:"step4_description"`
	Risk         *string          `json:"step5_risk"`
}

type wireHeadline struct {
	Headline    *string `json:"headline"`
	Translation *string `json:"translation"`
	Score       *string `json:"score"`
}

type wireDescription struct {
	Copy     *string    `json:"copy"`
	Hashtags *[]*string `json:"hashtags"`
}

// DecodeScriptResponse parses a model reply into a ScriptResponse.
//
// The reply must be a single JSON object carrying exactly the fields of the
// script package with the right types. Blank input fails with ErrEmptyResponse;
// any other mismatch fails with ErrMalformedResponse. Content rules such as
// the number of prompts are not checked here, see Validate.
func DecodeScriptResponse(data []byte) (*domain.ScriptResponse, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var wire wireScriptResponse
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// Exactly one JSON value is allowed.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}

	var missing []string
	if wire.Script == nil {
		missing = append(missing, FieldScript)
	}
	if wire.ImagePrompts == nil {
		missing = append(missing, FieldImagePrompts)
	}
	if wire.Headlines == nil {
		missing = append(missing, FieldHeadlines)
	}
	if wire.Description == nil {
		missing = append(missing, FieldDescription)
	}
	if wire.Risk == nil {
		missing = append(missing, FieldRisk)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s",
			ErrMalformedResponse, strings.Join(missing, ", "))
	}

	prompts, err := stringList(FieldImagePrompts, *wire.ImagePrompts)
	if err != nil {
		return nil, err
	}

	headlines := make([]domain.Headline, 0, len(*wire.Headlines))
	for i, h := range *wire.Headlines {
		headline, err := h.toDomain(i)
		if err != nil {
			return nil, err
		}
		headlines = append(headlines, headline)
	}

	description, err := wire.Description.toDomain()
	if err != nil {
		return nil, err
	}

	return &domain.ScriptResponse{
		Script:       *wire.Script,
		ImagePrompts: prompts,
		Headlines:    headlines,
		Description:  description,
		Risk:         *wire.Risk,
	}, nil
}

func (h *wireHeadline) toDomain(i int) (domain.Headline, error) {
	field := fmt.Sprintf("%s[%d]", FieldHeadlines, i)
	if h == nil {
		return domain.Headline{}, fmt.Errorf("%w: %s is null", ErrMalformedResponse, field)
	}

	var missing []string
	if h.Headline == nil {
		missing = append(missing, "headline")
	}
	if h.Translation == nil {
		missing = append(missing, "translation")
	}
	if h.Score == nil {
		missing = append(missing, "score")
	}
	if len(missing) > 0 {
		return domain.Headline{}, fmt.Errorf("%w: %s missing required fields: %s",
			ErrMalformedResponse, field, strings.Join(missing, ", "))
	}

	return domain.Headline{Headline: *h.Headline, Translation: *h.Translation, Score: *h.Score}, nil
}

func (d *wireDescription) toDomain() (domain.VideoDescription, error) {
	var missing []string
	if d.Copy == nil {
		missing = append(missing, "copy")
	}
	if d.Hashtags == nil {
		missing = append(missing, "hashtags")
	}
	if len(missing) > 0 {
		return domain.VideoDescription{}, fmt.Errorf("%w: %s missing required fields: %s",
			ErrMalformedResponse, FieldDescription, strings.Join(missing, ", "))
	}

	hashtags, err := stringList(FieldDescription+".hashtags", *d.Hashtags)
	if err != nil {
		return domain.VideoDescription{}, err
	}
	return domain.VideoDescription{Copy: *d.Copy, Hashtags: hashtags}, nil
}

// stringList rejects null elements, which would otherwise decode as "".
func stringList(field string, items []*string) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: %s[%d] is null", ErrMalformedResponse, field, i)
		}
		out = append(out, *item)
	}
	return out, nil
}

// ParseScriptResponse decodes text and, when strict is set, also applies the
// content rules checked by Validate.
func ParseScriptResponse(text string, strict bool) (*domain.ScriptResponse, error) {
	resp, err := DecodeScriptResponse([]byte(text))
	if err != nil {
		return nil, err
	}
	if strict {
		if err := Validate(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
