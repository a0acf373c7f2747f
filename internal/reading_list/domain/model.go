package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status is the reading progress of an entry.
type Status string

const (
	StatusToRead    Status = "to_read"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusToRead, StatusReading, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// Entry is a single reading-list record.
// It is storage-agnostic and used across repository, service and HTTP layers.
type Entry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    Status    `json:"status"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share the notes pointer.
func (e Entry) Clone() Entry {
	if e.Notes != nil {
		n := *e.Notes
		e.Notes = &n
	}
	return e
}

// CreateEntryRequest is the creation payload. A nil Status means the key was
// absent and defaults to to_read.
type CreateEntryRequest struct {
	Title  string  `json:"title" validate:"required,min=1,max=200"`
	Author string  `json:"author" validate:"required,min=1,max=100"`
	Status *Status `json:"status" validate:"omitnil,oneof=to_read reading completed"`
	Notes  *string `json:"notes" validate:"omitnil,max=1000"`

	// NullFields records non-nullable keys that were sent as null.
	NullFields []string `json:"-"`
}

// UnmarshalJSON rejects "status": null instead of treating it as absent.
func (r *CreateEntryRequest) UnmarshalJSON(data []byte) error {
	type plain CreateEntryRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	nulls, err := nullKeys(data, "status")
	if err != nil {
		return err
	}

	*r = CreateEntryRequest(p)
	r.NullFields = nulls
	return nil
}

// UpdateEntryRequest is the partial update payload. Nil pointers mean "not present".
type UpdateEntryRequest struct {
	Title  *string `json:"title" validate:"omitnil,min=1,max=200"`
	Author *string `json:"author" validate:"omitnil,min=1,max=100"`
	Status *Status `json:"status" validate:"omitnil,oneof=to_read reading completed"`
	Notes  *string `json:"notes" validate:"omitnil,max=1000"`

	// ClearNotes is set when the payload carries an explicit "notes": null.
	ClearNotes bool `json:"-"`
	// NullFields records non-nullable keys that were sent as null.
	NullFields []string `json:"-"`
}

var nullLiteral = []byte("null")

// nullKeys returns which of keys appear in the JSON object as an explicit null.
func nullKeys(data []byte, keys ...string) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var out []string
	for _, key := range keys {
		if v, ok := raw[key]; ok && bytes.Equal(bytes.TrimSpace(v), nullLiteral) {
			out = append(out, key)
		}
	}
	return out, nil
}

// UnmarshalJSON keeps track of keys sent as an explicit null, which a plain
// pointer decode cannot tell apart from absent keys.
func (r *UpdateEntryRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateEntryRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	nulls, err := nullKeys(data, "title", "author", "status", "notes")
	if err != nil {
		return err
	}

	*r = UpdateEntryRequest(p)
	r.ClearNotes = false
	r.NullFields = nil
	for _, key := range nulls {
		if key == "notes" {
			r.ClearNotes = true
			continue
		}
		r.NullFields = append(r.NullFields, key)
	}
	return nil
}

// FilterParams narrows a listing. Zero values mean "not given".
type FilterParams struct {
	Status Status
	Author string
}
