package factory

import (
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/services/db"
	"github.com/mynaparrot/voice-insights/pkg/services/insights"
)

// Application is the root struct holding all dependencies.
type Application struct {
	AppConfig       *config.AppConfig
	DatabaseService *dbservice.DatabaseService
	Processor       *insightsservice.UtteranceProcessor
	Runner          *insightsservice.SessionRunner
}

func (a *Application) Shutdown() {
	a.Processor.Stop()
}
