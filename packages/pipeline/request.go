package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Request describes one call to execute. The caller owns it until it is
// handed to Raw or Decode; the pipeline then takes ownership and releases it
// on every exit path.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string

	body io.Reader

	mu       sync.Mutex
	released bool
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// SetBody attaches a raw body. Readers that implement io.Closer are closed
// when the request is released.
func (r *Request) SetBody(body io.Reader) *Request {
	r.body = body
	return r
}

// SetJSONBody marshals v and attaches it with a JSON content type.
func (r *Request) SetJSONBody(v any) (*Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("encoding request body: %w", err)
	}
	r.body = bytes.NewReader(data)
	r.SetHeader("Content-Type", "application/json")
	return r, nil
}

// Close releases the request, closing its body when the body is a closer.
// Close is idempotent; the pipeline calls it on every exit path, and callers
// that never hand the request off may call it themselves.
func (r *Request) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	r.released = true
	if c, ok := r.body.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Released reports whether the request has been released.
func (r *Request) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
