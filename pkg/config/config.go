package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var dbTablePrefix string
var appConfig *AppConfig

type AppConfig struct {
	DB     *gorm.DB
	Logger *logrus.Logger

	RootWorkingDir string
	Speech         SpeechInfo        `yaml:"speech"`
	TextAnalytics  TextAnalyticsInfo `yaml:"text_analytics"`
	DatabaseInfo   DatabaseInfo      `yaml:"database_info"`
	LogSettings    LogSettings       `yaml:"log_settings"`
}

type SpeechInfo struct {
	Region          string `yaml:"region"`
	SubscriptionKey string `yaml:"subscription_key"`
	Language        string `yaml:"language"`
}

type TextAnalyticsInfo struct {
	ResourceName        string `yaml:"resource_name"`
	SubscriptionKey     string `yaml:"subscription_key"`
	Domain              string `yaml:"domain"`
	Endpoint            string `yaml:"endpoint"` // overrides https://{resource_name}.{domain}
	BaselineVersion     string `yaml:"baseline_version"`
	PreviewVersion      string `yaml:"preview_version"`
	UsePreviewSentiment *bool  `yaml:"use_preview_sentiment"`
	Language            string `yaml:"language"`
	// MaxConcurrentRequests bounds the analysis calls in flight
	MaxConcurrentRequests int           `yaml:"max_concurrent_requests"`
	Timeout               time.Duration `yaml:"timeout"`
	RetryMax              int           `yaml:"retry_max"`
}

type DatabaseInfo struct {
	DriverName      string         `yaml:"driver_name"`
	Path            string         `yaml:"path"`
	Host            string         `yaml:"host"`
	Port            int32          `yaml:"port"`
	Username        string         `yaml:"username"`
	Password        string         `yaml:"password"`
	DBName          string         `yaml:"db"`
	Prefix          string         `yaml:"prefix"`
	Charset         *string        `yaml:"charset"`
	Loc             *string        `yaml:"loc"`
	ConnMaxLifetime *time.Duration `yaml:"conn_max_lifetime"`
	MaxOpenConns    *int           `yaml:"max_open_conns"`
	Debug           bool           `yaml:"debug"`
}

type LogSettings struct {
	LogLevel   *string `yaml:"log_level"`
	LogFile    string  `yaml:"log_file"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

// New validates the required credentials, fills in defaults and
// makes the config available through GetConfig.
func New(appCnf *AppConfig) (*AppConfig, error) {
	if err := appCnf.Validate(); err != nil {
		return nil, err
	}
	return ApplyDefaults(appCnf), nil
}

// ApplyDefaults prepares appCnf without checking credentials. Enough for
// commands that only read the metadata store.
func ApplyDefaults(appCnf *AppConfig) *AppConfig {
	appCnf.setDefaults()

	if appCnf.DatabaseInfo.Prefix != "" {
		dbTablePrefix = appCnf.DatabaseInfo.Prefix
	}

	appConfig = appCnf
	return appCnf
}

func GetConfig() *AppConfig {
	return appConfig
}

// Validate reports the first required value that is empty or still holds
// a placeholder such as "<ENTER-SPEECH-RECOGNITION-REGION>".
func (a *AppConfig) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"speech.region", a.Speech.Region},
		{"speech.subscription_key", a.Speech.SubscriptionKey},
		{"text_analytics.resource_name", a.TextAnalytics.ResourceName},
		{"text_analytics.subscription_key", a.TextAnalytics.SubscriptionKey},
	}

	for _, r := range required {
		if isPlaceholder(r.value) {
			return fmt.Errorf("%w: %s", ErrMissingConfig, r.key)
		}
	}
	return nil
}

func (a *AppConfig) setDefaults() {
	if a.Speech.Language == "" {
		a.Speech.Language = DefaultSpeechLanguage
	}

	ta := &a.TextAnalytics
	if ta.Domain == "" {
		ta.Domain = DefaultTextAnalyticsDomain
	}
	if ta.BaselineVersion == "" {
		ta.BaselineVersion = DefaultBaselineVersion
	}
	if ta.PreviewVersion == "" {
		ta.PreviewVersion = DefaultPreviewVersion
	}
	if ta.UsePreviewSentiment == nil {
		v := true
		ta.UsePreviewSentiment = &v
	}
	if ta.Language == "" {
		ta.Language = DefaultDocumentLanguage
	}
	if ta.MaxConcurrentRequests <= 0 {
		ta.MaxConcurrentRequests = DefaultMaxConcurrentRequests
	}
	if ta.Timeout <= 0 {
		ta.Timeout = DefaultAnalysisTimeout
	}
	if ta.RetryMax < 0 {
		ta.RetryMax = 0
	}

	db := &a.DatabaseInfo
	if db.DriverName == "" {
		db.DriverName = DriverSqlite
	}
	if db.DriverName == DriverSqlite {
		if db.Path == "" {
			db.Path = DefaultSqlitePath
		}
		if !filepath.IsAbs(db.Path) && a.RootWorkingDir != "" {
			db.Path = filepath.Join(a.RootWorkingDir, db.Path)
		}
	}
}

// PreviewSentiment reports whether sentiment should use the preview API.
func (t *TextAnalyticsInfo) PreviewSentiment() bool {
	return t.UsePreviewSentiment != nil && *t.UsePreviewSentiment
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.HasPrefix(v, "<")
}

func FormatDBTable(table string) string {
	if dbTablePrefix != "" {
		return dbTablePrefix + table
	}
	return table
}
