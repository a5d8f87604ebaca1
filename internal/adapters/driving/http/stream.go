package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lumenite-labs/ragcore/internal/core/domain"
)

// streamNDJSON adapts the reasoning pipeline's result sequence into the
// line-delimited transport: exactly one frame per produced item, in the
// engine's order, flushed as soon as it is available. When the client
// disconnects the request context is canceled and no further items are
// pulled.
func streamNDJSON(w http.ResponseWriter, r *http.Request, items <-chan domain.ResultItem) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-items:
			if !ok {
				return
			}
			if err := writeFrame(w, item); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// writeFrame serializes one result item as one newline-terminated frame.
// Structured documents keep their field structure as a JSON record; plain
// text degrades to a raw line. The item union is closed, so the switch is
// exhaustive; the pointer case only normalizes to the value form.
func writeFrame(w io.Writer, item domain.ResultItem) error {
	switch v := item.(type) {
	case domain.StructuredDoc:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case *domain.StructuredDoc:
		return writeFrame(w, *v)
	case domain.PlainText:
		_, err := fmt.Fprintf(w, "%s\n", string(v))
		return err
	}
	return nil
}
