package textanalytics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/sirupsen/logrus"
)

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

var (
	ErrEmptyResponse = errors.New("analysis response contains no documents")
	ErrRequestFailed = errors.New("analysis request failed")
)

// Client talks to the text analytics REST API. One call analyses one kind.
type Client struct {
	baseUrl          string
	subscriptionKey  string
	baselineVersion  string
	previewVersion   string
	previewSentiment bool
	client           *retryablehttp.Client
	logger           *logrus.Entry
}

func NewClient(appCnf *config.AppConfig) *Client {
	cnf := appCnf.TextAnalytics

	baseUrl := strings.TrimRight(cnf.Endpoint, "/")
	if baseUrl == "" {
		baseUrl = fmt.Sprintf("https://%s.%s", cnf.ResourceName, cnf.Domain)
	}

	logger := appCnf.Logger.WithField("service", "text-analytics")

	client := retryablehttp.NewClient()
	client.RetryMax = cnf.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = cnf.Timeout
	client.Logger = &leveledLogger{logger: logger}

	return &Client{
		baseUrl:          baseUrl,
		subscriptionKey:  cnf.SubscriptionKey,
		baselineVersion:  cnf.BaselineVersion,
		previewVersion:   cnf.PreviewVersion,
		previewSentiment: cnf.PreviewSentiment(),
		client:           client,
		logger:           logger,
	}
}

// Endpoint returns the url for kind. Only sentiment has a preview version.
func (c *Client) Endpoint(kind Kind) string {
	version := c.baselineVersion
	if kind == KindSentiment && c.previewSentiment {
		version = c.previewVersion
	}
	return fmt.Sprintf("%s/text/analytics/v%s/%s", c.baseUrl, version, kind)
}

// Analyze submits req and returns the first document of the response.
func (c *Client) Analyze(ctx context.Context, kind Kind, req *Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	r, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(kind), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set(subscriptionKeyHeader, c.subscriptionKey)
	r.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(r)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http response code: %d, msg: %s", ErrRequestFailed, res.StatusCode, errorMessage(resBody, res.Status))
	}

	return parseResponse(kind, resBody)
}

func parseResponse(kind Kind, body []byte) (*Result, error) {
	resp := new(response)
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", kind, err)
	}

	if len(resp.Documents) == 0 {
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrRequestFailed, resp.Errors[0].text())
		}
		return nil, ErrEmptyResponse
	}

	raw := resp.Documents[0]
	doc := new(AnalysedDocument)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", kind, err)
	}

	return &Result{
		Kind:     kind,
		Document: doc,
		Raw:      raw,
	}, nil
}

func errorMessage(body []byte, fallback string) string {
	e := new(errorResponse)
	if err := json.Unmarshal(body, e); err != nil {
		return fallback
	}
	switch {
	case e.Error != nil:
		return fmt.Sprintf("%s: %s", e.Error.Code, e.Error.Message)
	case e.Message != "":
		return e.Message
	}
	return fallback
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger *logrus.Entry
}

func (l *leveledLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.logger.WithFields(f)
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Errorln(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Infoln(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debugln(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warnln(msg)
}
