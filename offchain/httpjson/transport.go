// Package httpjson provides net/http transports for the solanarpc clients.
package httpjson

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Abdullah1738/solana-esp-go/offchain/solanarpc"
)

const DefaultTimeout = 30 * time.Second

var ErrResponseTooLarge = errors.Wrap(solanarpc.ErrResponseParse, "response exceeds buffer")

type Option func(*Transport)

func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.http = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Transport) { t.metrics = m }
}

// WithHeader adds a header to every request, e.g. a provider API key.
func WithHeader(key, value string) Option {
	return func(t *Transport) { t.header.Set(key, value) }
}

// Transport posts JSON bodies with net/http and reads replies into the
// caller's buffer. It never retries.
type Transport struct {
	http    *http.Client
	logger  zerolog.Logger
	metrics *Metrics
	header  http.Header
}

var _ solanarpc.Transport = (*Transport)(nil)

func New(opts ...Option) *Transport {
	t := &Transport{
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: zerolog.Nop(),
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transport) PostJSON(ctx context.Context, url string, body, resp []byte) ([]byte, error) {
	return t.post(ctx, "sync", url, body, resp)
}

func (t *Transport) post(ctx context.Context, mode, url string, body, resp []byte) ([]byte, error) {
	start := time.Now()
	t.metrics.inFlight(1)
	defer t.metrics.inFlight(-1)

	out, outcome, err := t.exchange(ctx, url, body, resp)
	t.metrics.observe(mode, outcome, time.Since(start).Seconds(), len(out))
	if err != nil {
		t.logger.Warn().Err(err).Str("url", url).Str("outcome", outcome).Msg("json post failed")
		return nil, err
	}
	t.logger.Debug().Str("url", url).Int("response_bytes", len(out)).Dur("elapsed", time.Since(start)).Msg("json post")
	return out, nil
}

func (t *Transport) exchange(ctx context.Context, url string, body, resp []byte) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, OutcomeNetworkError, &solanarpc.NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := t.http.Do(req)
	if err != nil {
		return nil, OutcomeNetworkError, &solanarpc.NetworkError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, int64(len(resp))))
		return nil, OutcomeHTTPError, &solanarpc.NetworkError{Err: errors.Errorf("http status %d", res.StatusCode)}
	}

	n, err := io.ReadFull(res.Body, resp)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return resp[:n], OutcomeOK, nil
	case err != nil:
		return nil, OutcomeNetworkError, &solanarpc.NetworkError{Err: errors.Wrap(err, "read response")}
	}

	// resp is full; the reply fits only if the body ends here.
	var extra [1]byte
	m, err := io.ReadFull(res.Body, extra[:])
	switch {
	case m > 0:
		return nil, OutcomeOverflow, errors.Wrapf(ErrResponseTooLarge, "limit %d bytes", len(resp))
	case err != nil && err != io.EOF:
		return nil, OutcomeNetworkError, &solanarpc.NetworkError{Err: errors.Wrap(err, "read response")}
	}
	return resp[:n], OutcomeOK, nil
}
