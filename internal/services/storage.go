package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var reportExtensions = []string{".pdf", ".csv"}

type ReportStorage interface {
	SaveReport(sessionID uuid.UUID, ext string, data []byte) (string, string, error)
	GetReportPath(filename string) string
	DeleteReports(sessionID uuid.UUID) error
	EnsureReportDir() error
}

type reportStorage struct {
	reportPath string
}

func NewReportStorage(reportPath string) ReportStorage {
	return &reportStorage{
		reportPath: reportPath,
	}
}

func (s *reportStorage) EnsureReportDir() error {
	if err := os.MkdirAll(s.reportPath, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	return nil
}

func ReportFilename(sessionID uuid.UUID, ext string) string {
	return fmt.Sprintf("interview_summary_%s%s", sessionID.String(), ext)
}

// SaveReport writes a rendered report and returns its filename and full path.
// Saving again for the same session overwrites the previous file.
func (s *reportStorage) SaveReport(sessionID uuid.UUID, ext string, data []byte) (string, string, error) {
	if !validReportExtension(ext) {
		return "", "", fmt.Errorf("invalid report extension: %s", ext)
	}

	filename := ReportFilename(sessionID, ext)
	filePath := s.GetReportPath(filename)

	// Write to a temp file first so a concurrent download never sees a partial report
	tmp, err := os.CreateTemp(s.reportPath, filename+".*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", "", fmt.Errorf("failed to save report: %w", err)
	}

	return filename, filePath, nil
}

func (s *reportStorage) GetReportPath(filename string) string {
	return filepath.Join(s.reportPath, filename)
}

func (s *reportStorage) DeleteReports(sessionID uuid.UUID) error {
	var errs []error
	for _, ext := range reportExtensions {
		filePath := s.GetReportPath(ReportFilename(sessionID, ext))
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to delete report: %w", err))
		}
	}
	return errors.Join(errs...)
}

func validReportExtension(ext string) bool {
	for _, allowed := range reportExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
