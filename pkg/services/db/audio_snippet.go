package dbservice

import (
	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
)

// AppendUtterance stores one recognized utterance. The owning session must exist.
func (s *DatabaseService) AppendUtterance(info *dbmodels.AudioSnippetMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.sessionExists(info.AudioID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrSessionNotFound
	}

	result := s.db.Create(info)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// GetSnippets returns the utterances of one session in recognition order.
func (s *DatabaseService) GetSnippets(audioId uint64) ([]dbmodels.AudioSnippetMetadata, error) {
	var snippets []dbmodels.AudioSnippetMetadata

	result := s.db.Where("AudioId = ?", audioId).Order("Id ASC").Find(&snippets)
	if result.Error != nil {
		return nil, result.Error
	}

	return snippets, nil
}
