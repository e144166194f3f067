package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/media"
	"github.com/mynaparrot/voice-insights/pkg/recognition"
	"github.com/sirupsen/logrus"
)

// AzureRecognizer wraps the Speech SDK continuous recognizer.
type AzureRecognizer struct {
	source      media.Source
	language    string
	stopTimeout time.Duration
	log         *logrus.Entry

	speechConfig *speech.SpeechConfig
	audioConfig  *audio.AudioConfig
	recognizer   *speech.SpeechRecognizer
	stream       *recognition.EventStream
	closeOnce    sync.Once
}

// NewFactory returns a recognition.Factory creating Azure recognizers with the speech credentials of appCnf.
func NewFactory(appCnf *config.AppConfig) recognition.Factory {
	log := appCnf.Logger.WithField("service", "recognition")
	return func(src media.Source) (recognition.Recognizer, error) {
		return NewAzureRecognizer(appCnf.Speech, src, log)
	}
}

func NewAzureRecognizer(info config.SpeechInfo, src media.Source, log *logrus.Entry) (*AzureRecognizer, error) {
	if info.SubscriptionKey == "" || info.Region == "" {
		return nil, errors.New("azure speech requires subscription_key and region")
	}

	cnf, err := speech.NewSpeechConfigFromSubscription(info.SubscriptionKey, info.Region)
	if err != nil {
		return nil, err
	}

	return &AzureRecognizer{
		source:       src,
		language:     info.Language,
		stopTimeout:  config.WaitForRecognizerStop,
		log:          log.WithField("source", src.Kind.String()),
		speechConfig: cnf,
		stream:       recognition.NewEventStream(),
	}, nil
}

func (a *AzureRecognizer) Start(ctx context.Context) (<-chan *recognition.Utterance, error) {
	if a.stream.State() != recognition.StateIdle {
		return nil, errors.New("recognizer already started")
	}

	if a.language != "" {
		if err := a.speechConfig.SetSpeechRecognitionLanguage(a.language); err != nil {
			return nil, err
		}
	}

	var err error
	if a.source.IsMicrophone() {
		a.audioConfig, err = audio.NewAudioConfigFromDefaultMicrophoneInput()
	} else {
		a.audioConfig, err = audio.NewAudioConfigFromWavFileInput(a.source.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create audio config: %w", err)
	}

	a.recognizer, err = speech.NewSpeechRecognizerFromConfig(a.speechConfig, a.audioConfig)
	if err != nil {
		return nil, err
	}

	a.recognizer.SessionStarted(func(e speech.SessionEventArgs) {
		defer e.Close()
		a.log.WithField("sessionId", e.SessionID).Infoln("azure recognition started")
	})
	a.recognizer.SessionStopped(func(e speech.SessionEventArgs) {
		defer e.Close()
		a.log.WithField("sessionId", e.SessionID).Infoln("azure recognition stopped")
		a.stream.Close()
	})
	a.recognizer.Recognized(func(e speech.SpeechRecognitionEventArgs) {
		defer e.Close()
		if e.Result.Reason != common.RecognizedSpeech || strings.TrimSpace(e.Result.Text) == "" {
			return
		}
		a.stream.Emit(&recognition.Utterance{
			Text:     e.Result.Text,
			ResultID: e.Result.ResultID,
			Offset:   e.Result.Offset,
		})
	})
	a.recognizer.Canceled(func(e speech.SpeechRecognitionCanceledEventArgs) {
		defer e.Close()
		if e.Reason == common.EndOfStream {
			a.log.Infoln("reached end of audio stream")
		} else {
			a.log.WithField("errorCode", e.ErrorCode).Warnf("azure recognition canceled: %s", e.ErrorDetails)
		}
		a.stream.Close()
	})

	select {
	case err = <-a.recognizer.StartContinuousRecognitionAsync():
		if err != nil {
			a.stream.Close()
			return nil, fmt.Errorf("error starting azure recognition: %w", err)
		}
	case <-ctx.Done():
		a.stream.Close()
		return nil, ctx.Err()
	}

	a.stream.SetState(recognition.StateListening)
	return a.stream.Events(), nil
}

// Stop asks the service to stop and closes the event channel once it acknowledged.
func (a *AzureRecognizer) Stop() error {
	defer a.stream.Close()
	if a.recognizer == nil {
		return nil
	}

	select {
	case err := <-a.recognizer.StopContinuousRecognitionAsync():
		return err
	case <-time.After(a.stopTimeout):
		return errors.New("timed out waiting for azure recognition to stop")
	}
}

func (a *AzureRecognizer) State() recognition.State {
	return a.stream.State()
}

// Close releases the native SDK handles.
func (a *AzureRecognizer) Close() error {
	a.closeOnce.Do(func() {
		a.stream.Close()
		if a.recognizer != nil {
			a.recognizer.Close()
		}
		if a.audioConfig != nil {
			a.audioConfig.Close()
		}
		a.speechConfig.Close()
	})
	return nil
}
