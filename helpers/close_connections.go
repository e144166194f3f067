package helpers

import (
	"github.com/mynaparrot/voice-insights/pkg/config"
)

func HandleCloseConnections(appCnf *config.AppConfig) {
	if appCnf == nil || appCnf.DB == nil {
		return
	}

	// handle to close DB connection
	db, err := appCnf.DB.DB()
	if err == nil {
		_ = db.Close()
	}
}
