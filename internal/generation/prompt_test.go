package generation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilder_Default(t *testing.T) {
	t.Parallel()

	b, err := generation.NewPromptBuilder("")
	require.NoError(t, err)

	prompt, err := b.Prompt(domain.LanguageEnglish, "POLITICS & GOV")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Idioma do Roteiro: Inglês")
	assert.Contains(t, prompt, "Tema do Roteiro: POLITICS & GOV", "topics must not be HTML-escaped")

	sys := b.SystemInstruction()
	assert.Contains(t, sys, "step1_script")
	assert.Contains(t, sys, "in the cartoon style of The Simpsons")
	assert.Contains(t, sys, "#foryou #fyp #news #usa")
}

func TestPromptBuilder_EmptyTopic(t *testing.T) {
	t.Parallel()

	b, err := generation.NewPromptBuilder("")
	require.NoError(t, err)

	_, err = b.Prompt(domain.LanguageEnglish, "")
	assert.ErrorIs(t, err, domain.ErrEmptyTopic)
}

func TestPromptBuilder_CustomTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Topic}} in {{.Language}}"), 0o600))

	b, err := generation.NewPromptBuilder(path)
	require.NoError(t, err)

	prompt, err := b.Prompt(domain.LanguageSpanish, "ECONOMY")
	require.NoError(t, err)
	assert.Equal(t, "ECONOMY in Espanhol", prompt)
}

func TestPromptBuilder_BadTemplate(t *testing.T) {
	t.Parallel()

	_, err := generation.NewPromptBuilder(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	path := filepath.Join(t.TempDir(), "broken.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Topic"), 0o600))
	_, err = generation.NewPromptBuilder(path)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
