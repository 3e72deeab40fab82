package models

import (
	"testing"
	"time"
)

func TestValidGrade(t *testing.T) {
	tests := []struct {
		name  string
		grade string
		want  bool
	}{
		{
			name:  "kindergarten",
			grade: "K",
			want:  true,
		},
		{
			name:  "grade four",
			grade: "4",
			want:  true,
		},
		{
			name:  "grade seven",
			grade: "7",
			want:  false,
		},
		{
			name:  "empty",
			grade: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidGrade(tt.grade); got != tt.want {
				t.Errorf("ValidGrade(%q) = %v, want %v", tt.grade, got, tt.want)
			}
		})
	}
}

func TestValidSubject(t *testing.T) {
	for _, subject := range Subjects {
		if !ValidSubject(subject) {
			t.Errorf("ValidSubject(%q) = false, want true", subject)
		}
	}
	if ValidSubject("recess") {
		t.Error("ValidSubject(\"recess\") = true, want false")
	}
	if !ValidSubject(DefaultSubject) {
		t.Error("default subject must be a valid subject")
	}
}

func TestCloudTimeRoundTrip(t *testing.T) {
	ms := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC).UnixMilli()

	encoded := FormatCloudTime(ms)
	if encoded != "2025-03-14T09:26:53.589Z" {
		t.Fatalf("FormatCloudTime(%d) = %q", ms, encoded)
	}

	if got := ParseCloudTime(encoded); got != ms {
		t.Errorf("ParseCloudTime(%q) = %d, want %d", encoded, got, ms)
	}
}

func TestFormatCloudTimeOrdersLexically(t *testing.T) {
	// Fixed-width encoding so string comparison matches chronology,
	// including across the millisecond padding boundary
	times := []int64{
		time.Date(2025, 1, 2, 3, 4, 5, 7_000_000, time.UTC).UnixMilli(),
		time.Date(2025, 1, 2, 3, 4, 5, 70_000_000, time.UTC).UnixMilli(),
		time.Date(2025, 1, 2, 3, 4, 6, 0, time.UTC).UnixMilli(),
		time.Date(2025, 12, 31, 23, 59, 59, 999_000_000, time.UTC).UnixMilli(),
	}

	prev := FormatCloudTime(times[0])
	for _, ms := range times[1:] {
		cur := FormatCloudTime(ms)
		if !(prev < cur) {
			t.Errorf("expected %q < %q", prev, cur)
		}
		prev = cur
	}
}

func TestParseCloudTimeMalformed(t *testing.T) {
	before := time.Now().UnixMilli()

	for _, input := range []string{"", "not-a-time", "2025-13-45T99:99:99Z"} {
		got := ParseCloudTime(input)
		if got < before {
			t.Errorf("ParseCloudTime(%q) = %d, want a current timestamp", input, got)
		}
	}
}

func TestSessionRecordCloudRoundTrip(t *testing.T) {
	rec := SessionRecord{
		ID:             "rec-1",
		ProfileID:      "kid-1",
		Subject:        "science",
		Prompt:         "Why do leaves change color?",
		Response:       "Chlorophyll breaks down in autumn...",
		CreatedAt:      1_700_000_000_123,
		ConfusingWords: []string{"chlorophyll"},
		Wins:           []string{"understood seasons"},
	}

	back := rec.ToCloudRow().ToRecord()
	if back.ID != rec.ID || back.ProfileID != rec.ProfileID || back.Subject != rec.Subject {
		t.Errorf("identity fields changed: got %+v", back)
	}
	if back.Prompt != rec.Prompt || back.Response != rec.Response {
		t.Errorf("content fields changed: got %+v", back)
	}
	if back.CreatedAt != rec.CreatedAt {
		t.Errorf("CreatedAt = %d, want %d", back.CreatedAt, rec.CreatedAt)
	}
	if len(back.ConfusingWords) != 1 || back.ConfusingWords[0] != "chlorophyll" {
		t.Errorf("ConfusingWords = %v", back.ConfusingWords)
	}
	if len(back.Wins) != 1 || back.Wins[0] != "understood seasons" {
		t.Errorf("Wins = %v", back.Wins)
	}
}

func TestToCloudRowKeepsNilNotes(t *testing.T) {
	rec := SessionRecord{ID: "rec-2", ProfileID: "kid-1", Subject: "math", CreatedAt: 1}
	row := rec.ToCloudRow()
	if row.ConfusingWords != nil || row.Wins != nil {
		t.Errorf("expected nil note lists, got %v / %v", row.ConfusingWords, row.Wins)
	}
}
