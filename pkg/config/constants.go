package config

import "time"

const (
	DefaultSpeechLanguage        = "en-US"
	DefaultDocumentLanguage      = "en"
	DefaultTextAnalyticsDomain   = "cognitiveservices.azure.com"
	DefaultBaselineVersion       = "2.1"
	DefaultPreviewVersion        = "3.0-preview"
	DefaultMaxConcurrentRequests = 3
	DefaultAnalysisTimeout       = 30 * time.Second

	DriverSqlite      = "sqlite"
	DriverMysql       = "mysql"
	DefaultSqlitePath = "audio.db"

	MicrophoneSessionPrefix = "Mic"

	// WaitForRecognizerStop bounds how long we wait for the speech
	// service to acknowledge a stop request
	WaitForRecognizerStop = 10 * time.Second
)
