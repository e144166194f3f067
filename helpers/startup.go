package helpers

import (
	"context"
	"os"

	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/factory"
	"github.com/mynaparrot/voice-insights/pkg/logging"
	"gopkg.in/yaml.v3"
)

// PrepareApp sets up the logger and the metadata store.
func PrepareApp(ctx context.Context, appCnf *config.AppConfig) error {
	logger, err := logging.NewLogger(&appCnf.LogSettings)
	if err != nil {
		return err
	}
	appCnf.Logger = logger

	return factory.NewDatabaseConnection(ctx, appCnf)
}

func ReadYamlConfigFile(filename string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	appCnf := new(config.AppConfig)
	err = yaml.Unmarshal(yamlFile, appCnf)
	if err != nil {
		return nil, err
	}

	// get current working dir
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// set the root path
	appCnf.RootWorkingDir = wd

	return appCnf, nil
}
