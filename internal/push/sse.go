package push

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-contrib/sse"
)

var errSinkClosed = errors.New("stream closed")

type flushWriter interface {
	io.Writer
	http.Flusher
}

// sseSink writes event-stream frames. Writes are serialized; once closed,
// Send fails instead of touching a finished response.
type sseSink struct {
	mu     sync.Mutex
	w      flushWriter
	closed bool
}

func newSSESink(w flushWriter) *sseSink {
	return &sseSink{w: w}
}

// Send writes event as a single "data:" frame.
func (s *sseSink) Send(event any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSinkClosed
	}
	if err := sse.Encode(s.w, sse.Event{Data: event}); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

// comment writes a ":text" frame, ignored by event-stream parsers.
func (s *sseSink) comment(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSinkClosed
	}
	if _, err := io.WriteString(s.w, ":"+text+"\n\n"); err != nil {
		return err
	}
	s.w.Flush()
	return nil
}

func (s *sseSink) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
