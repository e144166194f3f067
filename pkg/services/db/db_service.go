package dbservice

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound  = errors.New("audio session not found")
	ErrSessionFinalized = errors.New("audio session already finalized")
)

// DatabaseService is the metadata store. Writes go through a single
// mutex so one session never sees interleaved partial updates.
type DatabaseService struct {
	db     *gorm.DB
	logger *logrus.Entry
	mu     sync.Mutex
	now    func() time.Time
}

func New(db *gorm.DB, logger *logrus.Logger) *DatabaseService {
	return &DatabaseService{
		db:     db,
		logger: logger.WithField("service", "database"),
		now:    time.Now,
	}
}
