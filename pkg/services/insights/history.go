package insightsservice

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mynaparrot/voice-insights/pkg/dbmodels"
	"github.com/mynaparrot/voice-insights/pkg/textanalytics"
)

// HistoryStore reads back what earlier sessions stored.
type HistoryStore interface {
	GetSessions(offset, limit int) ([]dbmodels.AudioDocument, int64, error)
	GetSession(audioId uint64) (*dbmodels.AudioDocument, error)
	GetSnippets(audioId uint64) ([]dbmodels.AudioSnippetMetadata, error)
}

// ListSessions prints one line per stored session, newest first.
func (r *Renderer) ListSessions(store HistoryStore, limit int) error {
	sessions, total, err := store.GetSessions(0, limit)
	if err != nil {
		return err
	}
	if total == 0 {
		r.println(r.warn.Render("No sessions recorded yet"))
		return nil
	}

	for _, s := range sessions {
		d := "in progress"
		if v, ok := s.SessionDuration(); ok {
			d = v.Round(time.Millisecond).String()
		}
		r.println(fmt.Sprintf("%6d  %s  %-40s %s", s.ID, s.CreatedOn.Local().Format(time.DateTime), s.Name, r.dim.Render(d)))
	}
	if int64(len(sessions)) < total {
		r.println(r.dim.Render(fmt.Sprintf("showing %d of %d sessions", len(sessions), total)))
	}
	return nil
}

// ShowSession replays the stored analysis of every utterance of a session.
func (r *Renderer) ShowSession(store HistoryStore, audioId uint64) error {
	doc, err := store.GetSession(audioId)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("session %d was not found", audioId)
	}

	snippets, err := store.GetSnippets(audioId)
	if err != nil {
		return err
	}

	r.println(fmt.Sprintf("Session %d: %s", doc.ID, doc.Name))
	r.println("")
	for i := range snippets {
		r.println(r.dim.Render(fmt.Sprintf("[%8.2fs]", snippets[i].Offset)))
		r.Utterance(snippetView(&snippets[i]))
	}

	d, _ := doc.SessionDuration()
	r.SessionEnd(len(snippets), d)
	return nil
}

// snippetView rebuilds the console view from the stored columns. Raw
// documents that do not parse are shown as missing.
func snippetView(s *dbmodels.AudioSnippetMetadata) *UtteranceView {
	v := &UtteranceView{Text: s.Text}

	if s.Sentiment.Valid {
		sv := &SentimentView{Label: s.Sentiment.String}
		switch {
		case s.NeutralSentiment.Valid && s.NegativeSentiment.Valid:
			sv.Scores = &textanalytics.DocumentScores{
				Positive: s.PositiveSentiment.Float64,
				Neutral:  s.NeutralSentiment.Float64,
				Negative: s.NegativeSentiment.Float64,
			}
		case s.PositiveSentiment.Valid:
			score := s.PositiveSentiment.Float64
			sv.Score = &score
		}
		v.Sentiment = sv
	}

	if doc := parseStored(s.KeyPhrasesJson.String, s.KeyPhrasesJson.Valid); doc != nil {
		v.KeyPhrases = doc.KeyPhrases
	}
	if doc := parseStored(s.NamedEntitiesJson.String, s.NamedEntitiesJson.Valid); doc != nil {
		v.Entities = doc.Entities
	}
	return v
}

func parseStored(raw string, valid bool) *textanalytics.AnalysedDocument {
	if !valid || raw == "" {
		return nil
	}
	doc := new(textanalytics.AnalysedDocument)
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return nil
	}
	return doc
}
