package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/excel-interviewer/internal/models"
)

type memoryRecordRepository struct {
	mu      sync.RWMutex
	nextID  uint
	records map[uuid.UUID][]models.Record
}

// NewMemoryRecordRepository keeps records in process memory. Used by the
// practice CLI and by tests.
func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{
		records: make(map[uuid.UUID][]models.Record),
	}
}

// Create implements RecordRepository.
func (m *memoryRecordRepository) Create(record *models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records[record.SessionID] {
		if existing.Position == record.Position {
			return fmt.Errorf("failed to create record: duplicate position %d for session %s", record.Position, record.SessionID)
		}
	}

	m.nextID++
	record.ID = m.nextID
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.records[record.SessionID] = append(m.records[record.SessionID], *record)
	return nil
}

// FindBySession implements RecordRepository.
func (m *memoryRecordRepository) FindBySession(sessionID uuid.UUID) ([]models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]models.Record, len(m.records[sessionID]))
	copy(records, m.records[sessionID])
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})
	return records, nil
}

// DeleteBySession implements RecordRepository.
func (m *memoryRecordRepository) DeleteBySession(sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, sessionID)
	return nil
}
