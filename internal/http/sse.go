package http

import (
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/messenger-cosmos-public/relay/internal/realtime"
)

const defaultEventName = "message"

// sseWriter frames hub events as Server-Sent Events and flushes each frame.
type sseWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func newSSEWriter(w io.Writer, flusher http.Flusher) *sseWriter {
	return &sseWriter{w: w, flusher: flusher}
}

func (s *sseWriter) WriteEvent(evt realtime.Event) error {
	data, err := json.MarshalNoEscape(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	name := string(evt.Type)
	if name == "" {
		name = defaultEventName
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseWriter) WriteKeepAlive() error {
	if _, err := io.WriteString(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
