package model

// Suggestion is the prefilled upload metadata for a file name.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
