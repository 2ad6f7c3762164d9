package wizard_test

import (
	"strings"
	"testing"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/mocks"
	"github.com/phrazzld/viral-scripts/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionIDs(v wizard.View) []string {
	ids := make([]string, 0, len(v.Actions))
	for _, a := range v.Actions {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestRender_Steps(t *testing.T) {
	tests := []struct {
		name    string
		snap    wizard.Snapshot
		title   string
		busy    bool
		actions []string
	}{
		{"idle", wizard.Snapshot{Step: wizard.StepIdle}, "CREATE VIRAL PROPHECIES", false, []string{wizard.ActionStart}},
		{"language", wizard.Snapshot{Step: wizard.StepAwaitingLanguage}, "SELECT LANGUAGE", false, []string{wizard.ActionChooseLanguage}},
		{"topic", wizard.Snapshot{Step: wizard.StepAwaitingTopic, Language: domain.LanguageEnglish}, "CHOOSE THE THEME OF BREAKING NEWS", false, []string{wizard.ActionChooseTopic}},
		{"generating", wizard.Snapshot{Step: wizard.StepGenerating}, "CONSULTING THE CRYSTAL BALL...", true, []string{}},
		{"error", wizard.Snapshot{Step: wizard.StepError, ErrorMessage: wizard.FailureMessage}, "TRANSMISSION FAILED", false, []string{wizard.ActionReset}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := wizard.Render(tt.snap)
			assert.Equal(t, tt.snap.Step, v.Step)
			assert.Equal(t, tt.title, v.Title)
			assert.Equal(t, tt.busy, v.Busy)
			assert.Equal(t, tt.actions, actionIDs(v))
		})
	}
}

func TestRender_LanguageOptions(t *testing.T) {
	v := wizard.Render(wizard.Snapshot{Step: wizard.StepAwaitingLanguage})

	require.Len(t, v.Options, 3)
	assert.Equal(t, "Português", v.Options[0].ID)
	assert.Equal(t, "Espanhol", v.Options[1].ID)
	assert.Equal(t, "Inglês", v.Options[2].ID)
}

func TestRender_TopicOptionsEndWithCustomEntry(t *testing.T) {
	v := wizard.Render(wizard.Snapshot{Step: wizard.StepAwaitingTopic})

	require.Len(t, v.Options, len(domain.Categories()))
	last := v.Options[len(v.Options)-1]
	assert.Equal(t, domain.CustomCategoryID, last.ID)
	assert.True(t, last.Custom)
	for _, o := range v.Options[:len(v.Options)-1] {
		assert.False(t, o.Custom, o.ID)
	}
	assert.NotEmpty(t, v.Placeholder)
}

func TestRender_ErrorShowsMessage(t *testing.T) {
	v := wizard.Render(wizard.Snapshot{Step: wizard.StepError, ErrorMessage: wizard.FailureMessage})
	assert.Equal(t, wizard.FailureMessage, v.Error)
	assert.Empty(t, v.Sections)
}

func TestRender_Results(t *testing.T) {
	resp := mocks.SampleScriptResponse("Moon landing hoax")
	v := wizard.Render(wizard.Snapshot{Step: wizard.StepResults, Result: resp})

	assert.Equal(t, "MISSION ACCOMPLISHED", v.Title)
	assert.Equal(t, []string{wizard.ActionReset}, actionIDs(v))
	require.Len(t, v.Sections, 5)

	byID := map[string]wizard.Section{}
	for _, s := range v.Sections {
		byID[s.ID] = s
	}

	script := byID["script"]
	require.NotNil(t, script.Copy)
	assert.Equal(t, resp.Script, script.Copy.Text)

	prompts := byID["prompts"]
	assert.Equal(t, "STEP 2: 20 IMAGE PROMPTS", prompts.Title)
	require.Len(t, prompts.Fields, 20)
	assert.Equal(t, resp.ImagePrompts[0], prompts.Fields[0].Text)
	require.NotNil(t, prompts.Copy)
	assert.Equal(t, strings.Join(resp.ImagePrompts, "\n\n"), prompts.Copy.Text)

	headlines := byID["headlines"]
	require.Len(t, headlines.Fields, 3)
	assert.Equal(t, "92%", headlines.Fields[0].Label)
	assert.Contains(t, headlines.Fields[0].Text, "THEY KNEW ALL ALONG")

	caption := byID["caption"]
	require.NotNil(t, caption.Copy)
	assert.Equal(t,
		resp.Description.Copy+"\n\n"+strings.Join(resp.Description.Hashtags, " "),
		caption.Copy.Text)

	risk := byID["risk"]
	require.Len(t, risk.Fields, 1)
	assert.Equal(t, "3%", risk.Fields[0].Text)
}

func TestRender_IsPure(t *testing.T) {
	snap := wizard.Snapshot{Step: wizard.StepResults, Result: mocks.SampleScriptResponse("x")}
	assert.Equal(t, wizard.Render(snap), wizard.Render(snap))
}
