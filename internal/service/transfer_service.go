package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"kidtutor/internal/models"
	"kidtutor/internal/repository"
	"kidtutor/internal/security"
	"kidtutor/internal/validation"
)

// ExportDocument is the portable artifact format: a self-describing JSON
// document whose sessions appear newest first.
type ExportDocument struct {
	Version    string                 `json:"version"`
	ExportedAt time.Time              `json:"exported_at"`
	ProfileID  string                 `json:"profile_id"`
	Sessions   []models.SessionRecord `json:"sessions"`
}

// importedSession mirrors one imported element. Everything is optional:
// missing fields get defaults, and any embedded profile id is ignored
// because import always binds to the targeted profile.
type importedSession struct {
	ID             string   `json:"id"`
	Subject        string   `json:"subject"`
	Prompt         string   `json:"prompt"`
	Response       string   `json:"response"`
	CreatedAt      *int64   `json:"createdAt"`
	ConfusingWords []string `json:"confusingWords"`
	Wins           []string `json:"wins"`
}

// TransferService serializes a profile's partition to and from the
// portable artifact format.
type TransferService struct {
	sessions *repository.SessionRepository
}

// NewTransferService creates a new transfer service
func NewTransferService(sessions *repository.SessionRepository) *TransferService {
	return &TransferService{sessions: sessions}
}

// ArtifactName returns the deterministic download name for a profile's export
func (s *TransferService) ArtifactName(profileID string) string {
	return fmt.Sprintf("kidtutor-sessions-%s.json", profileID)
}

// Export writes the profile's full partition to w and returns the number
// of sessions exported.
func (s *TransferService) Export(profileID string, w io.Writer) (int, error) {
	records, err := s.sessions.GetAll(profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to read sessions for export: %w", err)
	}
	if records == nil {
		// An empty partition exports as an empty list, not null, so the
		// artifact stays importable
		records = []models.SessionRecord{}
	}

	doc := ExportDocument{
		Version:    "1.0",
		ExportedAt: time.Now(),
		ProfileID:  profileID,
		Sessions:   records,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return 0, fmt.Errorf("failed to encode export: %w", err)
	}
	return len(records), nil
}

// ExportToFile writes the export artifact to a file path
func (s *TransferService) ExportToFile(profileID, outputPath string) (int, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	count, err := s.Export(profileID, file)
	if err != nil {
		return 0, err
	}

	log.Printf("Exported %d sessions for profile %s to %s", count, profileID, outputPath)
	return count, nil
}

// Import parses the artifact and stores every session under profileID. The
// whole document is decoded and validated before any write, so a corrupt
// file never partially imports. Accepts both the full export document and
// a bare top-level array of session objects. Returns the imported count.
func (s *TransferService) Import(profileID string, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read import data: %w", err)
	}

	elements, err := parseImport(data)
	if err != nil {
		return 0, err
	}

	records := make([]models.SessionRecord, len(elements))
	for i, el := range elements {
		records[i] = buildImportedRecord(profileID, el)
	}

	for _, rec := range records {
		if err := s.sessions.Put(rec); err != nil {
			return 0, fmt.Errorf("failed to store imported session %s: %w", rec.ID, err)
		}
	}

	log.Printf("Imported %d sessions for profile %s", len(records), profileID)
	return len(records), nil
}

// ImportFromFile reads the artifact from a file path
func (s *TransferService) ImportFromFile(profileID, inputPath string) (int, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.Import(profileID, file)
}

// parseImport accepts either the export document shape or a bare array.
// The raw sessions field distinguishes "key absent" from an empty or null
// list, so an exported empty history round-trips.
func parseImport(data []byte) ([]importedSession, error) {
	var doc struct {
		Sessions json.RawMessage `json:"sessions"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Sessions != nil {
		if string(doc.Sessions) == "null" {
			return nil, nil
		}
		var elements []importedSession
		if err := json.Unmarshal(doc.Sessions, &elements); err != nil {
			return nil, validation.ValidationError{Field: "file", Message: "not a valid session export document"}
		}
		return elements, nil
	}

	var elements []importedSession
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, validation.ValidationError{Field: "file", Message: "not a valid session export document"}
	}
	return elements, nil
}

// buildImportedRecord applies the import defaulting rules to one element.
func buildImportedRecord(profileID string, el importedSession) models.SessionRecord {
	rec := models.SessionRecord{
		ID:             el.ID,
		ProfileID:      profileID,
		Subject:        el.Subject,
		Prompt:         el.Prompt,
		Response:       el.Response,
		ConfusingWords: el.ConfusingWords,
		Wins:           el.Wins,
	}

	if rec.ID == "" {
		rec.ID = security.NewRecordID()
	}
	if !models.ValidSubject(rec.Subject) {
		rec.Subject = models.DefaultSubject
	}
	if el.CreatedAt != nil {
		rec.CreatedAt = *el.CreatedAt
	} else {
		rec.CreatedAt = time.Now().UnixMilli()
	}
	return rec
}
