package insightsservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
	"github.com/mynaparrot/voice-insights/pkg/media"
	"github.com/mynaparrot/voice-insights/pkg/recognition"
	"github.com/mynaparrot/voice-insights/pkg/services/db"
	"github.com/mynaparrot/voice-insights/pkg/textanalytics"
	"github.com/sirupsen/logrus"
)

func newTestConfig() *config.AppConfig {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &config.AppConfig{
		Logger: l,
		TextAnalytics: config.TextAnalyticsInfo{
			Language:              config.DefaultDocumentLanguage,
			MaxConcurrentRequests: 2,
		},
	}
}

// fakeAnalyzer answers with canned raw documents, kinds without one fail.
type fakeAnalyzer struct {
	mu       sync.Mutex
	docs     map[textanalytics.Kind]string
	requests []*textanalytics.Request
}

func (f *fakeAnalyzer) Analyze(_ context.Context, kind textanalytics.Kind, req *textanalytics.Request) (*textanalytics.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	raw, ok := f.docs[kind]
	f.mu.Unlock()

	if !ok {
		return nil, errors.New("connection refused")
	}
	doc := new(textanalytics.AnalysedDocument)
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return nil, err
	}
	return &textanalytics.Result{Kind: kind, Document: doc, Raw: []byte(raw)}, nil
}

type fakeStore struct {
	mu        sync.Mutex
	sessions  map[uint64]*dbmodels.AudioDocument
	snippets  []*dbmodels.AudioSnippetMetadata
	finalized []time.Duration
	createdOn time.Time
	appendErr error
}

func newFakeStore(createdOn time.Time) *fakeStore {
	return &fakeStore{
		sessions:  make(map[uint64]*dbmodels.AudioDocument),
		createdOn: createdOn,
	}
}

func (f *fakeStore) CreateSession(name string) (*dbmodels.AudioDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := &dbmodels.AudioDocument{ID: uint64(len(f.sessions) + 1), Name: name, CreatedOn: f.createdOn}
	f.sessions[doc.ID] = doc
	return doc, nil
}

func (f *fakeStore) AppendUtterance(info *dbmodels.AudioSnippetMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	if _, ok := f.sessions[info.AudioID]; !ok {
		return dbservice.ErrSessionNotFound
	}
	f.snippets = append(f.snippets, info)
	return nil
}

func (f *fakeStore) FinalizeSession(audioId uint64, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.finalized) > 0 {
		return dbservice.ErrSessionFinalized
	}
	f.finalized = append(f.finalized, d)
	return nil
}

// fakeRecognizer replays utterances through a real event stream.
type fakeRecognizer struct {
	stream     *recognition.EventStream
	utterances []*recognition.Utterance
	// keepOpen leaves the stream open after replay, like a live microphone
	keepOpen bool
	startErr error

	mu      sync.Mutex
	stopped bool
	closed  bool
}

func (f *fakeRecognizer) Start(ctx context.Context) (<-chan *recognition.Utterance, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.stream.SetState(recognition.StateListening)
	if f.keepOpen {
		// already buffered when the consumer starts
		for _, u := range f.utterances {
			f.stream.Emit(u)
		}
		return f.stream.Events(), nil
	}

	go func() {
		for _, u := range f.utterances {
			f.stream.Emit(u)
		}
		f.stream.Close()
	}()
	return f.stream.Events(), nil
}

func (f *fakeRecognizer) Stop() error {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
	f.stream.Close()
	return nil
}

func (f *fakeRecognizer) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.stream.Close()
	return nil
}

func newFakeRecognizer(utterances ...*recognition.Utterance) *fakeRecognizer {
	return &fakeRecognizer{
		stream:     recognition.NewEventStream(),
		utterances: utterances,
	}
}

func factoryFor(rec recognition.Recognizer) recognition.Factory {
	return func(media.Source) (recognition.Recognizer, error) {
		return rec, nil
	}
}

func newTestProcessor(analyzer Analyzer, store MetadataStore) (*UtteranceProcessor, *bytes.Buffer) {
	out := new(bytes.Buffer)
	p := NewUtteranceProcessor(newTestConfig(), analyzer, store, NewRenderer(out))
	return p, out
}
