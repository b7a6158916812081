package model

import "time"

// DefaultSectionID identifies the permanent section every session starts with.
const DefaultSectionID = "default"

// Section is a named grouping bucket for tasks.
type Section struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsDefault reports whether s is the reserved default section.
func (s Section) IsDefault() bool {
	return s.ID == DefaultSectionID
}
