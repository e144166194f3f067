package dbservice

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
	"gorm.io/gorm"
)

// CreateSession inserts a new audio document stamped with the current UTC time.
func (s *DatabaseService) CreateSession(name string) (*dbmodels.AudioDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := &dbmodels.AudioDocument{
		Name:      name,
		CreatedOn: s.now().UTC(),
	}
	result := s.db.Create(info)
	if result.Error != nil {
		return nil, result.Error
	}

	s.logger.WithField("audioId", info.ID).Debugln("audio session created")
	return info, nil
}

// FinalizeSession writes the session duration. Only the first call
// succeeds, later calls return ErrSessionFinalized and leave the stored value alone.
func (s *DatabaseService) FinalizeSession(audioId uint64, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.Model(&dbmodels.AudioDocument{}).
		Where("Id = ? AND Duration IS NULL", audioId).
		Update("Duration", sql.NullInt64{Int64: duration.Milliseconds(), Valid: true})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := s.sessionExists(audioId)
		if err != nil {
			return err
		}
		if !exists {
			return ErrSessionNotFound
		}
		return ErrSessionFinalized
	}

	return nil
}

func (s *DatabaseService) GetSession(audioId uint64) (*dbmodels.AudioDocument, error) {
	info := new(dbmodels.AudioDocument)
	result := s.db.Where("Id = ?", audioId).Take(info)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, nil
	case result.Error != nil:
		return nil, result.Error
	}

	return info, nil
}

// GetSessions returns the most recent sessions first.
func (s *DatabaseService) GetSessions(offset, limit int) ([]dbmodels.AudioDocument, int64, error) {
	var sessions []dbmodels.AudioDocument
	var total int64

	if limit == 0 {
		limit = 20
	}

	if err := s.db.Model(&dbmodels.AudioDocument{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.Order("Id DESC").Offset(offset).Limit(limit).Find(&sessions)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return sessions, total, nil
}

func (s *DatabaseService) sessionExists(audioId uint64) (bool, error) {
	var count int64
	err := s.db.Model(&dbmodels.AudioDocument{}).Where("Id = ?", audioId).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
