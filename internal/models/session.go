package models

import "time"

// Subjects is the fixed set of tutoring subjects.
var Subjects = []string{"math", "reading", "science", "writing", "history"}

// DefaultSubject is used when an imported record carries no recognizable subject.
const DefaultSubject = "math"

// cloudTimeLayout is RFC 3339 with fixed millisecond precision so that
// string ordering of cloud timestamps matches chronological ordering.
const cloudTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// SessionRecord is one persisted question/response exchange plus optional
// learner-added notes. The id is assigned at creation and never changes;
// CreatedAt is milliseconds since the Unix epoch. The note lists are the
// only fields that mutate after creation and a nil slice means the learner
// never touched that list.
type SessionRecord struct {
	ID             string   `json:"id"`
	ProfileID      string   `json:"profileId"`
	Subject        string   `json:"subject"`
	Prompt         string   `json:"prompt"`
	Response       string   `json:"response"`
	CreatedAt      int64    `json:"createdAt"`
	ConfusingWords []string `json:"confusingWords,omitempty"`
	Wins           []string `json:"wins,omitempty"`
}

// SessionNotes carries a partial update to a record's note lists. A nil
// field leaves the stored value untouched; a non-nil field replaces it
// entirely.
type SessionNotes struct {
	ConfusingWords *[]string `json:"confusingWords"`
	Wins           *[]string `json:"wins"`
}

// CloudSessionRow is the authoritative-store projection of a SessionRecord:
// same identity and fields, with the timestamp encoded as an ISO-8601 string
// and the note lists as nullable JSON arrays.
type CloudSessionRow struct {
	ID             string   `json:"id"`
	ProfileID      string   `json:"profile_id"`
	Subject        string   `json:"subject"`
	Prompt         string   `json:"prompt"`
	Response       string   `json:"response"`
	CreatedAt      string   `json:"created_at"`
	ConfusingWords []string `json:"confusing_words"`
	Wins           []string `json:"wins"`
}

// ToCloudRow projects a local record into its cloud encoding.
func (r SessionRecord) ToCloudRow() CloudSessionRow {
	return CloudSessionRow{
		ID:             r.ID,
		ProfileID:      r.ProfileID,
		Subject:        r.Subject,
		Prompt:         r.Prompt,
		Response:       r.Response,
		CreatedAt:      FormatCloudTime(r.CreatedAt),
		ConfusingWords: r.ConfusingWords,
		Wins:           r.Wins,
	}
}

// ToRecord converts a cloud row back into local encoding. An unparseable
// timestamp falls back to the current time rather than failing the pull.
func (c CloudSessionRow) ToRecord() SessionRecord {
	return SessionRecord{
		ID:             c.ID,
		ProfileID:      c.ProfileID,
		Subject:        c.Subject,
		Prompt:         c.Prompt,
		Response:       c.Response,
		CreatedAt:      ParseCloudTime(c.CreatedAt),
		ConfusingWords: c.ConfusingWords,
		Wins:           c.Wins,
	}
}

// FormatCloudTime encodes epoch milliseconds as an ISO-8601 UTC string.
func FormatCloudTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(cloudTimeLayout)
}

// ParseCloudTime decodes an ISO-8601 string to epoch milliseconds, returning
// the current time when the value is empty or malformed.
func ParseCloudTime(s string) int64 {
	if s == "" {
		return time.Now().UnixMilli()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}

// ValidSubject reports whether subject is one of the supported subjects.
func ValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
