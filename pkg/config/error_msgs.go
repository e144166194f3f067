package config

import "errors"

var ErrMissingConfig = errors.New("missing required configuration")

// MissingConfigMessage is the console text for a failed validation, naming
// the offending key when err carries one.
func MissingConfigMessage(err error) string {
	if err == nil {
		return ConfigureServicesMsg
	}
	return ConfigureServicesMsg + " (" + err.Error() + ")"
}

const (
	ConfigureServicesMsg = "Please configure the Cognitive Services values in your config file!"
	FileNotFoundMsg      = "File was not found!"
	OnlyWavSupportedMsg  = "Only .wav files are supported!"
	PressEnterToExitMsg  = "Press enter to exit..."
	NoSentimentFound     = "No sentiment found"
	NoKeyPhrasesFound    = "No key phrases found"
	NoEntitiesFound      = "No entities found"
)
