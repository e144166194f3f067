package dbservice

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *DatabaseService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(t.TempDir(), "audio.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dbmodels.AudioDocument{}, &dbmodels.AudioSnippetMetadata{}))

	t.Cleanup(func() {
		if d, err := db.DB(); err == nil {
			_ = d.Close()
		}
	})

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return New(db, l)
}

func TestDatabaseService_CreateSession(t *testing.T) {
	s := newTestService(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }

	info, err := s.CreateSession("Mic-test")
	require.NoError(t, err)
	assert.NotZero(t, info.ID)

	stored, err := s.GetSession(info.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Mic-test", stored.Name)
	assert.True(t, created.Equal(stored.CreatedOn))
	_, ok := stored.SessionDuration()
	assert.False(t, ok)

	missing, err := s.GetSession(info.ID + 100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDatabaseService_FinalizeSessionOnce(t *testing.T) {
	s := newTestService(t)
	info, err := s.CreateSession("call.wav")
	require.NoError(t, err)

	err = s.FinalizeSession(info.ID, 1500*time.Millisecond)
	require.NoError(t, err)

	err = s.FinalizeSession(info.ID, 9*time.Second)
	assert.ErrorIs(t, err, ErrSessionFinalized)

	stored, err := s.GetSession(info.ID)
	require.NoError(t, err)
	d, ok := stored.SessionDuration()
	assert.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, d)

	err = s.FinalizeSession(info.ID+100, time.Second)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDatabaseService_AppendUtterance(t *testing.T) {
	s := newTestService(t)
	info, err := s.CreateSession("call.wav")
	require.NoError(t, err)

	first := &dbmodels.AudioSnippetMetadata{
		AudioID:           info.ID,
		Text:              "I love this product.",
		ResultID:          "result-1",
		Offset:            1.25,
		Sentiment:         sql.NullString{String: "positive", Valid: true},
		PositiveSentiment: sql.NullFloat64{Float64: 0.82, Valid: true},
		NeutralSentiment:  sql.NullFloat64{Float64: 0.12, Valid: true},
		NegativeSentiment: sql.NullFloat64{Float64: 0.06, Valid: true},
		SentimentJson:     sql.NullString{String: `{"id":"1","sentiment":"positive"}`, Valid: true},
		KeyPhrasesJson:    sql.NullString{String: `{"id":"1","keyPhrases":[]}`, Valid: true},
	}
	require.NoError(t, s.AppendUtterance(first))

	second := &dbmodels.AudioSnippetMetadata{
		AudioID: info.ID,
		Text:    "Thanks.",
		Offset:  4.5,
	}
	require.NoError(t, s.AppendUtterance(second))

	snippets, err := s.GetSnippets(info.ID)
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	assert.Equal(t, "I love this product.", snippets[0].Text)
	assert.Equal(t, 0.82, snippets[0].PositiveSentiment.Float64)
	assert.Equal(t, 0.12, snippets[0].NeutralSentiment.Float64)
	assert.Equal(t, 0.06, snippets[0].NegativeSentiment.Float64)
	assert.Equal(t, `{"id":"1","keyPhrases":[]}`, snippets[0].KeyPhrasesJson.String)
	assert.False(t, snippets[0].NamedEntitiesJson.Valid)

	assert.Equal(t, "Thanks.", snippets[1].Text)
	assert.False(t, snippets[1].Sentiment.Valid)
	assert.False(t, snippets[1].SentimentJson.Valid)
}

func TestDatabaseService_AppendUtteranceUnknownSession(t *testing.T) {
	s := newTestService(t)

	err := s.AppendUtterance(&dbmodels.AudioSnippetMetadata{AudioID: 42, Text: "orphan"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDatabaseService_GetSessions(t *testing.T) {
	s := newTestService(t)
	for i := 0; i < 3; i++ {
		_, err := s.CreateSession(fmt.Sprintf("file-%d.wav", i))
		require.NoError(t, err)
	}

	sessions, total, err := s.GetSessions(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, sessions, 2)
	assert.Equal(t, "file-2.wav", sessions[0].Name)
	assert.Equal(t, "file-1.wav", sessions[1].Name)
}
