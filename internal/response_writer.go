package internal

import (
	"bufio"
	"net"
	"net/http"
)

// ResponseWriter records whether and with which status a response started,
// so the error handler never writes over a partial response.
//
// htmx ignores responses outside 2xx, so for htmx requests redirect and
// error statuses reach the client as 200. Status still reports the original.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	size    int64
	written bool
	isHTMX  bool
}

// NewResponseWriter wraps w.
func NewResponseWriter(w http.ResponseWriter, isHTMX bool) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK, isHTMX: isHTMX}
}

func (w *ResponseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.written = true
	w.status = code
	if w.isHTMX && code >= http.StatusMultipleChoices {
		code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Status returns the status written, or 200 if none was.
func (w *ResponseWriter) Status() int { return w.status }

// Size returns the number of body bytes written.
func (w *ResponseWriter) Size() int64 { return w.size }

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool { return w.written }

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.written {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}
