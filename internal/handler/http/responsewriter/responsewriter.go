// Package responsewriter records the status and body size of an HTTP
// response so that logging, metrics and tracing middleware can report them.
package responsewriter

import "net/http"

// Recorder wraps an http.ResponseWriter and remembers what was sent.
type Recorder struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

// Wrap returns a Recorder for w. If w is already a Recorder it is returned
// as is, so stacked middleware share one set of counters.
func Wrap(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}
	return &Recorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code and forwards it.
func (r *Recorder) WriteHeader(status int) {
	if r.written {
		return
	}
	r.status = status
	r.written = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (r *Recorder) Flush() {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Status returns the status code sent, 200 if none was set explicitly.
func (r *Recorder) Status() int { return r.status }

// Size returns the number of body bytes written.
func (r *Recorder) Size() int { return r.size }

// Written reports whether the header has been sent.
func (r *Recorder) Written() bool { return r.written }

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *Recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
