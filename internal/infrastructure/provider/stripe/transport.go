package stripe

import (
	"context"
	"net/http"
	"sync"
)

// exchange remembers the HTTP status of one processor call. It travels in the
// request context, so concurrent calls never share one.
type exchange struct {
	mu        sync.Mutex
	status    int
	responded bool
}

func (e *exchange) record(status int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.responded = true
}

func (e *exchange) result() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status, e.responded
}

type exchangeKey struct{}

func withExchange(ctx context.Context, ex *exchange) context.Context {
	return context.WithValue(ctx, exchangeKey{}, ex)
}

// recordingTransport stores the response status in the request's exchange.
type recordingTransport struct {
	base http.RoundTripper
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err == nil {
		if ex, ok := req.Context().Value(exchangeKey{}).(*exchange); ok {
			ex.record(resp.StatusCode)
		}
	}
	return resp, err
}

// withExchangeRecorder returns a shallow copy of client whose transport
// records response statuses.
func withExchangeRecorder(client *http.Client) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := *client
	c.Transport = &recordingTransport{base: base}
	return &c
}
