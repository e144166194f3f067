package recognition

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mynaparrot/voice-insights/pkg/media"
)

type State int32

const (
	StateIdle State = iota
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Utterance is one final recognition result.
type Utterance struct {
	Text     string
	ResultID string
	// Offset from the start of the audio
	Offset time.Duration
}

// OffsetSeconds returns the offset the way it is stored.
func (u *Utterance) OffsetSeconds() float64 {
	return u.Offset.Seconds()
}

// Recognizer drives continuous recognition against one audio source.
// The channel returned by Start is closed after cancellation, end of stream or Stop.
type Recognizer interface {
	Start(ctx context.Context) (<-chan *Utterance, error)
	Stop() error
	Close() error
}

// Factory creates a recognizer for src.
type Factory func(src media.Source) (Recognizer, error)

const eventBufferSize = 32

// EventStream hands utterances from recognizer callbacks to a single consumer.
// It can be closed from several callbacks, only the first close counts.
type EventStream struct {
	mu     sync.Mutex
	events chan *Utterance
	closed bool
	state  atomic.Int32
}

func NewEventStream() *EventStream {
	return &EventStream{
		events: make(chan *Utterance, eventBufferSize),
	}
}

// Emit delivers u unless the stream is already closed.
func (s *EventStream) Emit(u *Utterance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.events <- u
	return true
}

func (s *EventStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.SetState(StateStopped)
	close(s.events)
}

func (s *EventStream) SetState(st State) {
	s.state.Store(int32(st))
}

func (s *EventStream) State() State {
	return State(s.state.Load())
}

// Events is the receive side handed to the consumer.
func (s *EventStream) Events() <-chan *Utterance {
	return s.events
}
