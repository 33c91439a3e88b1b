package dto

// CoachingNoteResult is the structured response expected from the Gemini
// coaching prompt.
type CoachingNoteResult struct {
	Note       string   `json:"note"`
	Tone       string   `json:"tone"`
	FocusAreas []string `json:"focus_areas"`
}
