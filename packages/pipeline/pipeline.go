package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abdul-hamid-achik/harnesskit/packages/codec"
	"github.com/abdul-hamid-achik/harnesskit/packages/diag"
	"github.com/abdul-hamid-achik/harnesskit/packages/transport"
)

// Pipeline runs requests against one shared transport handle. A single
// Pipeline is safe for concurrent calls; it holds no per-call state and takes
// no locks of its own.
type Pipeline struct {
	handle             *transport.Handle
	sink               diag.Sink
	recorder           *diag.Recorder
	diagnosticsEnabled bool
}

type Option func(*Pipeline)

// WithSink routes diagnostic log lines to sink instead of the console.
func WithSink(sink diag.Sink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// WithDiagnostics enables response artifact capture through rec. Capture is an
// explicit construction-time choice, never read from ambient process state.
func WithDiagnostics(rec *diag.Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = rec
		p.diagnosticsEnabled = rec != nil
	}
}

func New(handle *transport.Handle, opts ...Option) *Pipeline {
	p := &Pipeline{handle: handle}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.sink = diag.NewConsoleSink(nil)
	}
	return p
}

// Raw executes the request and returns the materialized response whatever its
// status, for callers that only inspect status and headers. Ownership of the
// response transfers to the caller; the request is released before Raw
// returns.
func (p *Pipeline) Raw(ctx context.Context, req *Request) (*Response, error) {
	return p.exec(ctx, req)
}

// Decode executes the request and unmarshals a 2xx JSON body into T using the
// given codec options. Non-2xx statuses fail with *StatusError carrying the
// body text; parse faults fail with *DecodeError. A failed call never
// substitutes a zero value: callers can always distinguish an empty payload
// from a failure.
func Decode[T any](ctx context.Context, p *Pipeline, req *Request, opts ...codec.Option) (T, error) {
	var zero T

	resp, err := p.exec(ctx, req)
	if err != nil {
		return zero, err
	}

	if !resp.IsSuccess() {
		return zero, &StatusError{
			Method:     req.Method,
			URL:        p.handle.Resolve(req.Path),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.BodyString(),
		}
	}

	var out T
	if err := codec.Unmarshal(resp.Body, &out, opts...); err != nil {
		return zero, &DecodeError{Body: resp.BodyString(), Err: err}
	}
	return out, nil
}

// exec sends one request and materializes the response. Non-2xx responses are
// logged here so Raw and Decode share identical diagnostic behavior; artifact
// capture runs only for successful responses with a nonzero body. The request
// is released and the network body closed on every path.
func (p *Pipeline) exec(ctx context.Context, req *Request) (*Response, error) {
	defer req.Close()

	url := p.handle.Resolve(req.Path)

	// Release of the body belongs to the request, not to the HTTP client's
	// implicit close of closer bodies.
	reqBody := req.body
	if _, ok := reqBody.(io.Closer); ok {
		reqBody = io.NopCloser(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, reqBody)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	p.handle.Prepare(httpReq)

	start := time.Now()
	httpResp, err := p.handle.Do(httpReq)
	if err != nil {
		p.sink.Logf("%s %s: transport fault: %v", req.Method, url, err)
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := p.readBody(httpResp.Body)
	if err != nil {
		p.sink.Logf("%s %s: reading response body: %v", req.Method, url, err)
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	resp := newResponse(httpResp, body, time.Since(start))

	if !resp.IsSuccess() {
		p.sink.Logf("%s %s: %s: %s", req.Method, url, resp.Status, resp.BodyString())
	} else if p.diagnosticsEnabled && len(body) > 0 {
		if _, err := p.recorder.SaveResponse(req.Method, url, resp.StatusCode, body); err != nil {
			p.sink.Logf("saving response artifact: %v", err)
		}
	}

	return resp, nil
}

// readBody buffers the response exactly once, bounded by the handle ceiling.
// Everything downstream works on the buffered copy.
func (p *Pipeline) readBody(r io.Reader) ([]byte, error) {
	max := p.handle.MaxResponseBytes()
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, fmt.Errorf("response body exceeds %d byte buffering ceiling", max)
	}
	return body, nil
}
