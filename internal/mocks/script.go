package mocks

import (
	"fmt"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// SampleScriptResponse returns a complete script package for topic, shaped the
// way the model is asked to produce it: 20 image prompts, 3 headlines and 10
// hashtags.
func SampleScriptResponse(topic string) *domain.ScriptResponse {
	prompts := make([]string, 0, domain.ImagePromptCount)
	for i := 1; i <= domain.ImagePromptCount; i++ {
		prompts = append(prompts,
			fmt.Sprintf("Scene %d of %s, a worried news anchor at a desk, %s",
				i, topic, domain.ImagePromptStyleSuffix))
	}

	hashtags := append([]string(nil), domain.FixedHashtags...)
	hashtags = append(hashtags, "#moon", "#nasa", "#space", "#conspiracy", "#simpsons", "#prophecy")

	return &domain.ScriptResponse{
		Script: "BREAKING NEWS! They told us it was history, but the cartoon saw it first. " +
			"Tonight we dig into " + topic + " and the episode that predicted everything.",
		ImagePrompts: prompts,
		Headlines: []domain.Headline{
			{Headline: "THEY KNEW ALL ALONG", Translation: "ELES SABIAM DE TUDO", Score: "92%"},
			{Headline: "THE EPISODE THAT PREDICTED IT", Translation: "O EPISÓDIO QUE PREVIU", Score: "88%"},
			{Headline: "NOBODY IS TALKING ABOUT THIS", Translation: "NINGUÉM FALA DISSO", Score: "81%"},
		},
		Description: domain.VideoDescription{
			Copy:     "The Simpsons saw it coming. Follow for part 2!",
			Hashtags: hashtags,
		},
		Risk: "3%",
	}
}
