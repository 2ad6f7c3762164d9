package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

//go:embed prompts/system.txt
var systemInstruction string

//go:embed prompts/script.tmpl
var defaultPromptTemplate string

// promptData represents the data passed to the prompt template
type promptData struct {
	Language string
	Topic    string
}

// PromptBuilder renders the fixed system instruction and the per-call prompt.
// text/template is used rather than html/template: topics such as
// "POLITICS & GOV" must reach the model unescaped.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the prompt template at templatePath, or the built-in
// template when templatePath is empty.
func NewPromptBuilder(templatePath string) (*PromptBuilder, error) {
	content := defaultPromptTemplate
	name := "script"

	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				ErrInvalidConfig, templatePath, err)
		}
		content = string(raw)
		name = templatePath
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	return &PromptBuilder{tmpl: tmpl}, nil
}

// SystemInstruction returns the fixed instruction describing tone, platform
// constraints, minimum length and the output structure.
func (b *PromptBuilder) SystemInstruction() string {
	return strings.TrimSpace(systemInstruction)
}

// Prompt renders the per-call prompt for lang and topic.
func (b *PromptBuilder) Prompt(lang domain.Language, topic domain.Topic) (string, error) {
	if topic == "" {
		return "", domain.ErrEmptyTopic
	}

	var buf bytes.Buffer
	data := promptData{Language: lang.String(), Topic: topic.String()}
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
