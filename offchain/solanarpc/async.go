package solanarpc

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Abdullah1738/solana-esp-go/internal/fixedbuf"
	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

// AsyncClient issues the same calls as Client over an AsyncTransport. Each
// call returns immediately; the caller suspends only in Await.
type AsyncClient struct {
	rpcURL    string
	transport AsyncTransport
	opts      options
}

func NewAsync(rpcURL string, transport AsyncTransport, opts ...Option) *AsyncClient {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &AsyncClient{
		rpcURL:    strings.TrimSpace(rpcURL),
		transport: transport,
		opts:      o,
	}
}

func (c *AsyncClient) URL() string { return c.rpcURL }

// callState owns the buffers of one in-flight call until it completes.
type callState struct {
	req  [MaxRequestBodySize]byte
	resp [ResponseBufferSize]byte

	method  string
	start   time.Time
	pending *Pending
	err     error
	logger  zerolog.Logger
}

func (s *callState) begin(ctx context.Context, c *AsyncClient, build func(*fixedbuf.Buffer) error) {
	s.logger = c.opts.logger
	if c.rpcURL == "" {
		s.err = ErrMissingRPCURL
		return
	}
	if c.transport == nil {
		s.err = errors.Wrap(ErrUnsupported, "no transport configured")
		return
	}
	body := fixedbuf.New(s.req[:])
	if err := build(&body); err != nil {
		s.err = err
		return
	}
	s.start = time.Now()
	s.logger.Debug().Str("method", s.method).Int("request_bytes", body.Len()).Msg("rpc call started")
	s.pending = c.transport.StartPostJSON(ctx, c.rpcURL, body.Bytes(), s.resp[:])
}

// Call is an in-flight RPC call.
type Call[T any] struct {
	callState
	extract func([]byte) (T, error)
}

// Await suspends until the call completes or ctx ends. Ending ctx abandons
// the wait, not the exchange; cancel the context the call was started with
// to stop the exchange.
func (call *Call[T]) Await(ctx context.Context) (T, error) {
	var zero T
	if call.err != nil {
		return zero, call.err
	}
	out, err := call.pending.Wait(ctx)
	logCall(call.logger, call.method, 0, len(out), call.start, err)
	if err != nil {
		return zero, classify(err)
	}
	return call.extract(out)
}

func (c *AsyncClient) GetLatestBlockhash(ctx context.Context, commitment Commitment) *Call[solana.Hash] {
	call := &Call[solana.Hash]{extract: ExtractBlockhash}
	call.method = "getLatestBlockhash"
	call.begin(ctx, c, func(buf *fixedbuf.Buffer) error {
		return writeBlockhashRequest(buf, commitment)
	})
	return call
}

func (c *AsyncClient) SendTransaction(ctx context.Context, tx *solana.Transaction) *Call[solana.Signature] {
	var txBuf [solana.PacketDataSize]byte
	n, err := tx.MarshalInto(txBuf[:])
	if err != nil {
		call := &Call[solana.Signature]{extract: ExtractSignature}
		call.method = "sendTransaction"
		call.err = err
		return call
	}
	return c.SendRawTransaction(ctx, txBuf[:n])
}

// SendRawTransaction encodes rawTx into the call's own request body, so rawTx
// may be reused as soon as it returns.
func (c *AsyncClient) SendRawTransaction(ctx context.Context, rawTx []byte) *Call[solana.Signature] {
	call := &Call[solana.Signature]{extract: ExtractSignature}
	call.method = "sendTransaction"
	call.begin(ctx, c, func(buf *fixedbuf.Buffer) error {
		return writeSendRequest(buf, rawTx, c.opts.skipPreflight)
	})
	return call
}
