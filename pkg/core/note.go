package core

import "time"

// TimeLayout is the persisted timestamp format: UTC, always with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Note is the central entity of the domain.
// It represents one user-authored title/content pair.
// Id and CreatedAt never change once the note is stored.
type Note struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Deleted confirms the removal of a note.
type Deleted struct {
	ID int64 `json:"deletedId" yaml:"deletedId"`
}

// Clone returns a copy of the collection that shares no backing array with notes.
func Clone(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}
