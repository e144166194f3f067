//go:build wireinject
// +build wireinject

package factory

import (
	"github.com/google/wire"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/recognition/azure"
	"github.com/mynaparrot/voice-insights/pkg/services/db"
	"github.com/mynaparrot/voice-insights/pkg/services/insights"
	"github.com/mynaparrot/voice-insights/pkg/textanalytics"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	dbservice.New,
	textanalytics.NewClient,
	azure.NewFactory,
	insightsservice.NewUtteranceProcessor,
	insightsservice.NewSessionRunner,
	wire.Bind(new(insightsservice.Analyzer), new(*textanalytics.Client)),
	wire.Bind(new(insightsservice.MetadataStore), new(*dbservice.DatabaseService)),
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(appConfig *config.AppConfig, renderer *insightsservice.Renderer) (*Application, error) {
	wire.Build(
		serviceSet,
		// Provide the whole AppConfig, and also specific fields needed by constructors.
		wire.FieldsOf(new(*config.AppConfig), "DB", "Logger"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
