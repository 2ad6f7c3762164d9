package domain

// Category is a preset topic offered on the topic selection screen.
// Choosing a preset submits its label as the topic.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Custom marks the entry that switches the screen to free-text input.
	Custom bool `json:"custom,omitempty"`
}

// CustomCategoryID is the id of the free-text entry.
const CustomCategoryID = "custom"

var categories = []Category{
	{ID: "politics", Label: "POLITICS & GOV"},
	{ID: "global", Label: "GLOBAL EVENTS"},
	{ID: "tech", Label: "TECH & BIG TECH"},
	{ID: "pop", Label: "POP CULTURE"},
	{ID: "social", Label: "SOCIAL ISSUES"},
	{ID: "crime", Label: "CRIME & TRUE CASES"},
	{ID: "economy", Label: "ECONOMY"},
	{ID: "viral", Label: "VIRAL NEWS"},
	{ID: CustomCategoryID, Label: "SUGGEST TOPIC", Custom: true},
}

// Categories returns the preset categories followed by the custom entry.
// The returned slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// TopicForCategory returns the topic submitted when the category with the given
// id is chosen.
func TopicForCategory(id string) (Topic, error) {
	for _, c := range categories {
		if c.ID != id {
			continue
		}
		if c.Custom {
			return "", ErrCustomCategory
		}
		return NewTopic(c.Label)
	}
	return "", ErrUnknownCategory
}
