package insightsservice

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
	"github.com/mynaparrot/voice-insights/pkg/recognition"
	"github.com/mynaparrot/voice-insights/pkg/textanalytics"
	"github.com/sirupsen/logrus"
)

// Analyzer runs one kind of text analysis.
type Analyzer interface {
	Analyze(ctx context.Context, kind textanalytics.Kind, req *textanalytics.Request) (*textanalytics.Result, error)
}

// MetadataStore persists sessions and utterances.
type MetadataStore interface {
	CreateSession(name string) (*dbmodels.AudioDocument, error)
	AppendUtterance(info *dbmodels.AudioSnippetMetadata) error
	FinalizeSession(audioId uint64, duration time.Duration) error
}

// UtteranceProcessor analyses, renders and stores one utterance at a time.
type UtteranceProcessor struct {
	analyzer Analyzer
	store    MetadataStore
	renderer *Renderer
	language string
	pool     *workerpool.WorkerPool
	logger   *logrus.Entry
}

func NewUtteranceProcessor(appCnf *config.AppConfig, analyzer Analyzer, store MetadataStore, renderer *Renderer) *UtteranceProcessor {
	return &UtteranceProcessor{
		analyzer: analyzer,
		store:    store,
		renderer: renderer,
		language: appCnf.TextAnalytics.Language,
		pool:     workerpool.New(appCnf.TextAnalytics.MaxConcurrentRequests),
		logger:   appCnf.Logger.WithField("service", "utterance-processor"),
	}
}

// Process runs the three analyses, renders the outcome and appends exactly one
// snippet to the store. Failed analyses leave their fields empty.
func (p *UtteranceProcessor) Process(ctx context.Context, audioId uint64, u *recognition.Utterance) (*dbmodels.AudioSnippetMetadata, error) {
	req := textanalytics.NewRequest(p.language, u.Text)
	results := p.analyzeAll(ctx, req)

	info := &dbmodels.AudioSnippetMetadata{
		AudioID:  audioId,
		Text:     u.Text,
		ResultID: u.ResultID,
		Offset:   u.OffsetSeconds(),
	}
	view := &UtteranceView{
		Text: u.Text,
	}

	if res := results[textanalytics.KindSentiment]; res != nil {
		info.SentimentJson = rawColumn(res.Raw)
		view.Sentiment = applySentiment(info, res.Document)
	}
	if res := results[textanalytics.KindKeyPhrases]; res != nil {
		info.KeyPhrasesJson = rawColumn(res.Raw)
		view.KeyPhrases = res.Document.KeyPhrases
	}
	if res := results[textanalytics.KindEntities]; res != nil {
		info.NamedEntitiesJson = rawColumn(res.Raw)
		view.Entities = res.Document.Entities
	}

	p.renderer.Utterance(view)

	if err := p.store.AppendUtterance(info); err != nil {
		return nil, err
	}
	return info, nil
}

// analyzeAll fans the request out on the worker pool and waits for every kind.
func (p *UtteranceProcessor) analyzeAll(ctx context.Context, req *textanalytics.Request) map[textanalytics.Kind]*textanalytics.Result {
	var mu sync.Mutex
	var wg sync.WaitGroup
	results := make(map[textanalytics.Kind]*textanalytics.Result, len(textanalytics.Kinds))

	for _, kind := range textanalytics.Kinds {
		wg.Add(1)
		p.pool.Submit(func() {
			defer wg.Done()

			res, err := p.analyzer.Analyze(ctx, kind, req)
			if err != nil {
				p.logger.WithError(err).WithField("kind", kind).Warnln("text analysis failed")
				return
			}

			mu.Lock()
			results[kind] = res
			mu.Unlock()
		})
	}
	wg.Wait()

	return results
}

// Stop waits for submitted analyses and releases the workers.
func (p *UtteranceProcessor) Stop() {
	p.pool.StopWait()
}

// applySentiment copies the label and scores into info. Newer responses carry
// document scores, legacy ones a single positivity score.
func applySentiment(info *dbmodels.AudioSnippetMetadata, doc *textanalytics.AnalysedDocument) *SentimentView {
	switch {
	case doc.DocumentScores != nil:
		info.Sentiment = sql.NullString{String: doc.Sentiment, Valid: doc.Sentiment != ""}
		info.PositiveSentiment = sql.NullFloat64{Float64: doc.DocumentScores.Positive, Valid: true}
		info.NeutralSentiment = sql.NullFloat64{Float64: doc.DocumentScores.Neutral, Valid: true}
		info.NegativeSentiment = sql.NullFloat64{Float64: doc.DocumentScores.Negative, Valid: true}
		return &SentimentView{Label: doc.Sentiment, Scores: doc.DocumentScores}

	case doc.Score != nil:
		label := textanalytics.LegacyLabel(*doc.Score)
		info.Sentiment = sql.NullString{String: label, Valid: true}
		info.PositiveSentiment = sql.NullFloat64{Float64: *doc.Score, Valid: true}
		return &SentimentView{Label: label, Score: doc.Score}
	}

	return nil
}

func rawColumn(raw []byte) sql.NullString {
	return sql.NullString{String: string(raw), Valid: len(raw) > 0}
}
