package insightsservice

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/textanalytics"
)

// Renderer writes analysis results to the console. Colours are dropped
// automatically when the writer is not a terminal.
type Renderer struct {
	out       io.Writer
	text      lipgloss.Style
	dim       lipgloss.Style
	warn      lipgloss.Style
	link      lipgloss.Style
	sentiment map[string]lipgloss.Style
}

func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:  out,
		text: r.NewStyle().Foreground(lipgloss.Color("6")),
		dim:  r.NewStyle().Foreground(lipgloss.Color("8")),
		warn: r.NewStyle().Foreground(lipgloss.Color("3")),
		link: r.NewStyle().Foreground(lipgloss.Color("4")),
		sentiment: map[string]lipgloss.Style{
			textanalytics.SentimentPositive: r.NewStyle().Foreground(lipgloss.Color("10")),
			textanalytics.SentimentNeutral:  r.NewStyle().Foreground(lipgloss.Color("11")),
			textanalytics.SentimentNegative: r.NewStyle().Foreground(lipgloss.Color("9")),
			textanalytics.SentimentMixed:    r.NewStyle().Foreground(lipgloss.Color("7")),
		},
	}
}

// SentimentView is what gets displayed for the sentiment analysis.
type SentimentView struct {
	Label  string
	Scores *textanalytics.DocumentScores
	// Score is set for legacy responses
	Score *float64
}

type UtteranceView struct {
	Text       string
	Sentiment  *SentimentView
	KeyPhrases []string
	Entities   []textanalytics.Entity
}

func (r *Renderer) Utterance(v *UtteranceView) {
	r.println(r.text.Render(v.Text))
	r.println("")
	r.println(r.dim.Render("Text analysis..."))

	r.renderSentiment(v.Sentiment)
	r.println("")

	if len(v.KeyPhrases) > 0 {
		r.println("  Key phrases:")
		for _, kp := range v.KeyPhrases {
			r.println("   - " + kp)
		}
	} else {
		r.println(r.warn.Render("  " + config.NoKeyPhrasesFound))
	}
	r.println("")

	if len(v.Entities) > 0 {
		r.println("  Entities:")
		for _, e := range v.Entities {
			r.println(fmt.Sprintf("   - %s (%s)", e.Name, e.Type))
			if e.WikipediaUrl != "" {
				r.println(r.link.Render("       " + e.WikipediaUrl))
			}
		}
	} else {
		r.println(r.warn.Render("  " + config.NoEntitiesFound))
	}
	r.println("")
}

func (r *Renderer) renderSentiment(s *SentimentView) {
	switch {
	case s == nil:
		r.println(r.warn.Render("  " + config.NoSentimentFound))

	case s.Scores != nil:
		r.println(fmt.Sprintf("  Sentiment is %s with scores:", r.colored(s.Label, s.Label)))
		r.println("   - Positive:  " + r.colored(FormatPercent(s.Scores.Positive), textanalytics.SentimentPositive))
		r.println("   - Neutral:   " + r.colored(FormatPercent(s.Scores.Neutral), textanalytics.SentimentNeutral))
		r.println("   - Negative:  " + r.colored(FormatPercent(s.Scores.Negative), textanalytics.SentimentNegative))

	case s.Score != nil:
		pct := strconv.FormatFloat(math.Round(*s.Score*100), 'f', 0, 64)
		r.println(fmt.Sprintf("  Sentiment is %s (%s%%)", r.colored(s.Label, s.Label), pct))

	default:
		r.println(r.warn.Render("  " + config.NoSentimentFound))
	}
}

// Prompt asks for more speech in microphone mode.
func (r *Renderer) Prompt() {
	r.println("Say something or press q to quit...")
	r.print(r.dim.Render("> "))
}

func (r *Renderer) ProcessingFile(path string) {
	r.println(fmt.Sprintf("Processing audio file %q...", path))
	r.println("")
}

func (r *Renderer) SessionEnd(utterances int, d time.Duration) {
	r.println("")
	r.println(r.dim.Render(fmt.Sprintf("Session finished: %d utterance(s) in %s", utterances, d.Round(time.Millisecond))))
}

func (r *Renderer) Error(msg string) {
	r.println(r.sentiment[textanalytics.SentimentNegative].Render(msg))
}

func (r *Renderer) Println(msg string) {
	r.println(msg)
}

func (r *Renderer) colored(s, sentiment string) string {
	if st, ok := r.sentiment[sentiment]; ok {
		return st.Render(s)
	}
	return s
}

func (r *Renderer) println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

func (r *Renderer) print(s string) {
	_, _ = fmt.Fprint(r.out, s)
}

// FormatPercent renders a probability as a percentage rounded to two decimals.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100*100)/100, 'f', -1, 64) + "%"
}
