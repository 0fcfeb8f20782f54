package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/excel-interviewer/internal/models"
)

type RecordRepository interface {
	Create(record *models.Record) error
	FindBySession(sessionID uuid.UUID) ([]models.Record, error)
	DeleteBySession(sessionID uuid.UUID) error
}

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

// Create implements RecordRepository.
func (r *recordRepository) Create(record *models.Record) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// FindBySession implements RecordRepository. Records come back in question order.
func (r *recordRepository) FindBySession(sessionID uuid.UUID) ([]models.Record, error) {
	var records []models.Record
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Order("id ASC").
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}

	return records, nil
}

// DeleteBySession implements RecordRepository.
func (r *recordRepository) DeleteBySession(sessionID uuid.UUID) error {
	result := r.db.Where("session_id = ?", sessionID).Delete(&models.Record{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete records: %w", result.Error)
	}
	return nil
}
