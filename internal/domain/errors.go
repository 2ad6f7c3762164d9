package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidLanguage is returned when a language tag is not one of the supported languages.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrEmptyTopic is returned when a topic is empty after trimming whitespace.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrUnknownCategory is returned when a category id does not match any preset.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrCustomCategory is returned when the free-text category is used as a preset.
	// The custom entry has no label of its own; the caller must supply the topic text.
	ErrCustomCategory = errors.New("custom category requires a free-text topic")
)
