package repositories

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"alfredoptarigan/excel-interviewer/internal/config"
	"alfredoptarigan/excel-interviewer/internal/models"
)

func newSQLiteRecordRepository(t *testing.T) RecordRepository {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Env: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "records.db")},
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		t.Fatalf("InitDatabase: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return NewRecordRepository(db)
}

var recordRepositories = []struct {
	name string
	new  func(t *testing.T) RecordRepository
}{
	{name: "sqlite", new: newSQLiteRecordRepository},
	{name: "memory", new: func(*testing.T) RecordRepository { return NewMemoryRecordRepository() }},
}

func newRecord(sessionID uuid.UUID, position int) *models.Record {
	return &models.Record{
		SessionID:      sessionID,
		Position:       position,
		Question:       "Question",
		Answer:         "Answer",
		Score:          position + 1,
		Feedback:       "Feedback",
		ScoreParsed:    true,
		FeedbackParsed: true,
	}
}

func TestRecordRepository_FindBySessionOrdersByPosition(t *testing.T) {
	for _, repo := range recordRepositories {
		t.Run(repo.name, func(t *testing.T) {
			r := repo.new(t)
			sessionID := uuid.New()
			other := uuid.New()

			for _, pos := range []int{2, 0, 1} {
				if err := r.Create(newRecord(sessionID, pos)); err != nil {
					t.Fatalf("Create(%d): %v", pos, err)
				}
			}
			if err := r.Create(newRecord(other, 0)); err != nil {
				t.Fatalf("Create(other): %v", err)
			}

			records, err := r.FindBySession(sessionID)
			if err != nil {
				t.Fatalf("FindBySession: %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("got %d records, want 3", len(records))
			}
			for i, rec := range records {
				if rec.Position != i || rec.SessionID != sessionID || rec.Score != i+1 {
					t.Errorf("record %d = %+v", i, rec)
				}
			}
		})
	}
}

func TestRecordRepository_RejectsDuplicatePosition(t *testing.T) {
	for _, repo := range recordRepositories {
		t.Run(repo.name, func(t *testing.T) {
			r := repo.new(t)
			sessionID := uuid.New()

			if err := r.Create(newRecord(sessionID, 1)); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if err := r.Create(newRecord(sessionID, 1)); err == nil {
				t.Errorf("expected duplicate position to be rejected")
			}
			// The same position in another session is fine.
			if err := r.Create(newRecord(uuid.New(), 1)); err != nil {
				t.Errorf("Create in other session: %v", err)
			}

			records, _ := r.FindBySession(sessionID)
			if len(records) != 1 {
				t.Errorf("got %d records, want 1", len(records))
			}
		})
	}
}

func TestRecordRepository_DeleteBySession(t *testing.T) {
	for _, repo := range recordRepositories {
		t.Run(repo.name, func(t *testing.T) {
			r := repo.new(t)
			sessionID := uuid.New()
			kept := uuid.New()

			for pos := 0; pos < 3; pos++ {
				if err := r.Create(newRecord(sessionID, pos)); err != nil {
					t.Fatalf("Create: %v", err)
				}
			}
			if err := r.Create(newRecord(kept, 0)); err != nil {
				t.Fatalf("Create: %v", err)
			}

			if err := r.DeleteBySession(sessionID); err != nil {
				t.Fatalf("DeleteBySession: %v", err)
			}

			records, err := r.FindBySession(sessionID)
			if err != nil {
				t.Fatalf("FindBySession: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("got %d records after delete, want 0", len(records))
			}

			others, _ := r.FindBySession(kept)
			if len(others) != 1 {
				t.Errorf("other session has %d records, want 1", len(others))
			}

			// Deleting a session with no records is not an error.
			if err := r.DeleteBySession(uuid.New()); err != nil {
				t.Errorf("DeleteBySession(unknown): %v", err)
			}
		})
	}
}
