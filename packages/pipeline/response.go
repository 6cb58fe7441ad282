package pipeline

import (
	"net/http"
	"strings"
	"time"
)

// Response is a fully materialized response handle: status, headers, and a
// body buffered once up to the handle's ceiling. It is never backed by a live
// network stream, so the body may be inspected any number of times.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func newResponse(resp *http.Response, body []byte, duration time.Duration) *Response {
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    headers,
		Body:       body,
		Duration:   duration,
	}
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Header returns a header value by case-insensitive name.
func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
