package model

// Category describes how a category id is displayed.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// DefaultCategory is used when an entry has no category.
const DefaultCategory = "other"

// Categories lists the known categories in display order.
var Categories = []Category{
	{ID: "food", Name: "Food & Dining", Icon: "🍽️"},
	{ID: "transport", Name: "Transportation", Icon: "🚗"},
	{ID: "shopping", Name: "Shopping", Icon: "🛍️"},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬"},
	{ID: "lifestyle", Name: "Lifestyle", Icon: "✨"},
	{ID: "health", Name: "Health & Fitness", Icon: "💪"},
	{ID: DefaultCategory, Name: "Other", Icon: "📦"},
}

// LookupCategory returns display metadata for id. Unknown ids display as
// the default category but keep their own id.
func LookupCategory(id string) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	fallback := Categories[len(Categories)-1]
	fallback.ID = id
	return fallback
}

// IsKnownCategory reports whether id is one of Categories.
func IsKnownCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryIDs returns the known category ids in display order.
func CategoryIDs() []string {
	ids := make([]string, len(Categories))
	for i, c := range Categories {
		ids[i] = c.ID
	}
	return ids
}
