package factory

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabaseConnection opens the metadata store and provisions the schema
// when it does not exist yet.
func NewDatabaseConnection(ctx context.Context, appCnf *config.AppConfig) error {
	info := appCnf.DatabaseInfo

	dialector, err := newDialector(&info)
	if err != nil {
		return err
	}

	loggerCnf := logger.Config{
		SlowThreshold:             time.Second, // Slow SQL threshold
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	}
	if info.Debug {
		loggerCnf.LogLevel = logger.Info
	}

	cnf := &gorm.Config{
		Logger: logger.New(appCnf.Logger, loggerCnf),
	}

	db, err := gorm.Open(dialector, cnf)
	if err != nil {
		return err
	}

	d, err := db.DB()
	if err != nil {
		return err
	}
	err = d.PingContext(ctx)
	if err != nil {
		return err
	}

	connMaxLifetime := time.Minute * 4
	if info.ConnMaxLifetime != nil && *info.ConnMaxLifetime > 0 {
		connMaxLifetime = *info.ConnMaxLifetime
	}
	maxOpenConns := 10
	if info.MaxOpenConns != nil && *info.MaxOpenConns > 0 {
		maxOpenConns = *info.MaxOpenConns
	}
	if info.DriverName == config.DriverSqlite {
		// sqlite allows a single writer
		maxOpenConns = 1
	}
	d.SetConnMaxLifetime(connMaxLifetime)
	d.SetMaxOpenConns(maxOpenConns)
	d.SetMaxIdleConns(maxOpenConns)

	err = db.WithContext(ctx).AutoMigrate(&dbmodels.AudioDocument{}, &dbmodels.AudioSnippetMetadata{})
	if err != nil {
		return fmt.Errorf("failed to provision schema: %w", err)
	}

	appCnf.DB = db
	return nil
}

func newDialector(info *config.DatabaseInfo) (gorm.Dialector, error) {
	switch info.DriverName {
	case config.DriverSqlite:
		if dir := filepath.Dir(info.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		return sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", info.Path)), nil

	case config.DriverMysql:
		cnf := gomysql.NewConfig()
		cnf.User = info.Username
		cnf.Passwd = info.Password
		cnf.Net = "tcp"
		cnf.Addr = net.JoinHostPort(info.Host, strconv.Itoa(int(info.Port)))
		cnf.DBName = info.DBName
		cnf.ParseTime = true
		cnf.Params = map[string]string{"charset": "utf8mb4"}
		if info.Charset != nil && *info.Charset != "" {
			cnf.Params["charset"] = *info.Charset
		}
		if info.Loc != nil && *info.Loc != "" {
			loc, err := time.LoadLocation(*info.Loc)
			if err != nil {
				return nil, err
			}
			cnf.Loc = loc
		}
		return mysql.New(mysql.Config{DSN: cnf.FormatDSN()}), nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", info.DriverName)
	}
}
