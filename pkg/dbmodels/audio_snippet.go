package dbmodels

import (
	"database/sql"

	"github.com/mynaparrot/voice-insights/pkg/config"
)

// AudioSnippetMetadata is one recognized utterance with its analysis results.
// The Json columns keep the raw analysis documents, NULL when the call failed.
type AudioSnippetMetadata struct {
	ID       uint64  `gorm:"column:Id;primaryKey;autoIncrement"`
	AudioID  uint64  `gorm:"column:AudioId;not null;index:idx_audio_id"`
	Text     string  `gorm:"column:Text;type:text;not null"`
	ResultID string  `gorm:"column:ResultId;type:varchar(64)"`
	Offset   float64 `gorm:"column:Offset;not null;default:0"`

	Sentiment         sql.NullString  `gorm:"column:Sentiment;type:varchar(16)"`
	PositiveSentiment sql.NullFloat64 `gorm:"column:PositiveSentiment"`
	NeutralSentiment  sql.NullFloat64 `gorm:"column:NeutralSentiment"`
	NegativeSentiment sql.NullFloat64 `gorm:"column:NegativeSentiment"`

	SentimentJson     sql.NullString `gorm:"column:SentimentJson;type:text"`
	KeyPhrasesJson    sql.NullString `gorm:"column:KeyPhrasesJson;type:text"`
	NamedEntitiesJson sql.NullString `gorm:"column:NamedEntitiesJson;type:text"`
}

func (t *AudioSnippetMetadata) TableName() string {
	return config.FormatDBTable("AudioSnippetMetadata")
}
