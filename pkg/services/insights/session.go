package insightsservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/media"
	"github.com/mynaparrot/voice-insights/pkg/recognition"
	"github.com/mynaparrot/voice-insights/pkg/services/db"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SessionSummary describes a finished recognition session.
type SessionSummary struct {
	AudioID    uint64
	Utterances int
	Duration   time.Duration
}

// SessionRunner drives one recognition session from start to finalization.
type SessionRunner struct {
	store      MetadataStore
	processor  *UtteranceProcessor
	recognizer recognition.Factory
	renderer   *Renderer
	logger     *logrus.Entry
	now        func() time.Time
}

func NewSessionRunner(appCnf *config.AppConfig, store MetadataStore, processor *UtteranceProcessor, factory recognition.Factory, renderer *Renderer) *SessionRunner {
	return &SessionRunner{
		store:      store,
		processor:  processor,
		recognizer: factory,
		renderer:   renderer,
		logger:     appCnf.Logger.WithField("service", "session-runner"),
		now:        time.Now,
	}
}

// Run records one session. Utterances are processed one at a time in the order
// they were recognized. Cancelling ctx stops recognition, events that were
// already delivered are still processed before the duration is written.
func (r *SessionRunner) Run(ctx context.Context, src media.Source) (*SessionSummary, error) {
	log := r.logger.WithFields(logrus.Fields{
		"source": src.Kind.String(),
		"name":   src.Name,
	})

	if !src.IsMicrophone() {
		r.logWavInfo(log, src.Path)
	}

	rec, err := r.recognizer(src)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.WithError(err).Warnln("failed to release recognizer")
		}
	}()

	doc, err := r.store.CreateSession(src.Name)
	if err != nil {
		return nil, err
	}
	log = log.WithField("audioId", doc.ID)
	summary := &SessionSummary{AudioID: doc.ID}

	events, err := rec.Start(ctx)
	if err != nil {
		summary.Duration = r.finalize(log, doc.ID, doc.CreatedOn)
		return summary, fmt.Errorf("failed to start recognition: %w", err)
	}
	log.Infoln("recognition session started")

	if src.IsMicrophone() {
		r.renderer.Println("")
		r.renderer.Prompt()
	} else {
		r.renderer.ProcessingFile(src.Path)
	}

	// analyses of buffered utterances must still complete after a quit
	procCtx := context.WithoutCancel(ctx)
	consumed := make(chan struct{})

	g := new(errgroup.Group)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			log.Infoln("stop requested")
			return rec.Stop()
		case <-consumed:
			return nil
		}
	})
	g.Go(func() error {
		defer close(consumed)
		for u := range events {
			if _, err := r.processor.Process(procCtx, doc.ID, u); err != nil {
				log.WithError(err).WithField("resultId", u.ResultID).Errorln("failed to store utterance")
			} else {
				summary.Utterances++
			}
			if src.IsMicrophone() {
				r.renderer.Prompt()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Warnln("recognizer did not stop cleanly")
	}

	summary.Duration = r.finalize(log, doc.ID, doc.CreatedOn)
	r.renderer.SessionEnd(summary.Utterances, summary.Duration)
	log.WithField("utterances", summary.Utterances).Infoln("recognition session finished")

	return summary, nil
}

func (r *SessionRunner) finalize(log *logrus.Entry, audioId uint64, createdOn time.Time) time.Duration {
	d := r.now().Sub(createdOn)
	if d < 0 {
		d = 0
	}

	err := r.store.FinalizeSession(audioId, d)
	switch {
	case err == nil:
	case errors.Is(err, dbservice.ErrSessionFinalized):
		log.Warnln("session was already finalized")
	default:
		log.WithError(err).Errorln("failed to finalize session")
	}
	return d
}

func (r *SessionRunner) logWavInfo(log *logrus.Entry, path string) {
	info, err := media.ReadWAVInfoFile(path)
	if err != nil {
		log.WithError(err).Warnln("could not read wav header")
		return
	}

	log.WithFields(logrus.Fields{
		"sampleRate": info.SampleRate,
		"channels":   info.NumChannels,
		"bits":       info.BitsPerSample,
		"length":     info.Duration().String(),
	}).Infoln("audio file")

	if info.AudioFormat != 1 || info.BitsPerSample != 16 || info.NumChannels != 1 {
		log.Warnln("speech recognition expects 16 bit mono PCM, results may be poor")
	}
}
