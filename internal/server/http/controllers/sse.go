package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/David2024patton/discord-attendance-bot/internal/eventfeed"
)

// sseSink delivers feed events as Server-Sent Events. Each event is a
// JSON-encoded data frame; the event id carries the sequence number so
// clients can resume with ?after=.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

func (s sseSink) Send(ev eventfeed.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("id: " + strconv.FormatUint(ev.Seq, 10) + "\ndata: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	_, err = s.w.Write([]byte("\n\n"))
	return err
}

func (s sseSink) Context() context.Context { return s.r.Context() }

func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
