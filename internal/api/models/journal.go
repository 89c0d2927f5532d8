package models

// JournalEntryInput is the request body for creating a journal entry.
type JournalEntryInput struct {
	Content string `json:"content"`

	// Mood is an optional self-reported valence value (0-100).
	Mood *float64 `json:"mood,omitempty"`
}

// JournalEntry is a stored journal entry with its optional AI reflection.
type JournalEntry struct {
	ID         string             `json:"id"`
	Content    string             `json:"content"`
	Mood       *float64           `json:"mood,omitempty"`
	Reflection *JournalReflection `json:"reflection,omitempty"`
	CreatedAt  Timestamp          `json:"createdAt"`
}

// JournalReflection is the AI coach's structured read of an entry.
type JournalReflection struct {
	Summary    string   `json:"summary"`
	Themes     []string `json:"themes,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// JournalEntryList is a paged list of journal entries.
type JournalEntryList struct {
	Items []JournalEntry    `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
