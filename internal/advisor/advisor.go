// Package advisor answers crop-health questions posted to the crop feed.
//
// The only implementation is a fixed keyword table. It performs no inference
// and every answer is labelled with its Source so callers can show that.
package advisor

import "strings" // Keyword matching

// Client produces an advisory response for a crop problem description
type Client interface {
	Respond(description string) string
	Source() string
}

// PlaceholderSource labels answers produced by the keyword table
const PlaceholderSource = "placeholder-keyword-table"

type rule struct {
	keywords []string
	response string
}

var rules = []rule{
	{
		keywords: []string{"spot", "leaf"},
		response: "Based on your description, this appears to be a case of powdery mildew. I recommend applying a fungicide specifically designed for this issue. Also, ensure proper air circulation around your plants and avoid overhead watering.",
	},
	{
		keywords: []string{"yellow", "pale"},
		response: "The symptoms you're describing suggest a nutrient deficiency, likely nitrogen. Consider applying a balanced fertilizer with higher nitrogen content. Also, check your soil pH as it might be affecting nutrient uptake.",
	},
	{
		keywords: []string{"insect", "bite"},
		response: "This looks like pest damage, possibly from aphids or spider mites. I recommend using an organic insecticidal soap or neem oil. Apply in the evening to avoid leaf burn and repeat every 7-10 days.",
	},
	{
		keywords: []string{"water", "wilt"},
		response: "Your crop might be suffering from overwatering. Reduce watering frequency and ensure proper drainage. Check that the soil is dry to about 1 inch depth before watering again.",
	},
}

const fallbackResponse = "The symptoms indicate a bacterial or fungal infection. Remove and destroy affected plant parts. Apply a copper-based fungicide and avoid overhead watering to prevent spread."

type placeholder struct{}

// NewPlaceholder returns the keyword table responder
func NewPlaceholder() Client { return placeholder{} }

// Respond returns the first table entry whose keywords appear in description.
// Rules are checked in order, so "yellow spots" matches the leaf rule.
func (placeholder) Respond(description string) string {
	text := strings.ToLower(description)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(text, k) {
				return r.response
			}
		}
	}
	return fallbackResponse
}

func (placeholder) Source() string { return PlaceholderSource }
