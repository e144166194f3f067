package textanalytics

import "github.com/goccy/go-json"

type Kind string

const (
	KindSentiment  Kind = "sentiment"
	KindKeyPhrases Kind = "keyPhrases"
	KindEntities   Kind = "entities"
)

// Kinds lists every analysis run for an utterance, in display order.
var Kinds = []Kind{KindSentiment, KindKeyPhrases, KindEntities}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
)

type Document struct {
	Language string `json:"language"`
	ID       string `json:"id"`
	Text     string `json:"text"`
}

type Request struct {
	Documents []Document `json:"documents"`
}

// NewRequest wraps text in the single document request used by every analysis kind.
func NewRequest(language, text string) *Request {
	return &Request{
		Documents: []Document{
			{Language: language, ID: "1", Text: text},
		},
	}
}

type DocumentScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type Entity struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	WikipediaUrl string `json:"wikipediaUrl,omitempty"`
}

// AnalysedDocument is the union of the per kind document results.
type AnalysedDocument struct {
	ID             string          `json:"id"`
	Sentiment      string          `json:"sentiment,omitempty"`
	DocumentScores *DocumentScores `json:"documentScores,omitempty"`
	Score          *float64        `json:"score,omitempty"`
	KeyPhrases     []string        `json:"keyPhrases,omitempty"`
	Entities       []Entity        `json:"entities,omitempty"`
}

// Result is one parsed document together with its raw JSON.
type Result struct {
	Kind     Kind
	Document *AnalysedDocument
	Raw      []byte
}

type response struct {
	Documents []json.RawMessage `json:"documents"`
	Errors    []apiError        `json:"errors"`
}

type apiError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != nil {
		return e.Error.Code + ": " + e.Error.Message
	}
	return "unknown error"
}

type errorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
