package domain

import "strings"

// Topic is the subject of a generated script. A Topic is never blank: the only
// way to build one is NewTopic, which trims surrounding whitespace.
type Topic string

// NewTopic trims raw and returns it as a Topic.
// Returns ErrEmptyTopic when nothing is left after trimming.
func NewTopic(raw string) (Topic, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyTopic
	}
	return Topic(trimmed), nil
}

// String implements fmt.Stringer.
func (t Topic) String() string {
	return string(t)
}
