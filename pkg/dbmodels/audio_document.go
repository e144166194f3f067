package dbmodels

import (
	"database/sql"
	"time"

	"github.com/mynaparrot/voice-insights/pkg/config"
)

// AudioDocument is one recognition session against a single audio source.
// Duration holds milliseconds and stays NULL until the session is finalized.
type AudioDocument struct {
	ID        uint64        `gorm:"column:Id;primaryKey;autoIncrement"`
	Name      string        `gorm:"column:Name;type:varchar(255);not null"`
	CreatedOn time.Time     `gorm:"column:CreatedOn;not null"`
	Duration  sql.NullInt64 `gorm:"column:Duration"`

	Snippets []AudioSnippetMetadata `gorm:"foreignKey:AudioID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (t *AudioDocument) TableName() string {
	return config.FormatDBTable("AudioDocuments")
}

// SessionDuration returns the stored duration, if any.
func (t *AudioDocument) SessionDuration() (time.Duration, bool) {
	if !t.Duration.Valid {
		return 0, false
	}
	return time.Duration(t.Duration.Int64) * time.Millisecond, true
}
