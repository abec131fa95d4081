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

type Option func(*options)

type options struct {
	logger        zerolog.Logger
	skipPreflight bool
}

func defaultOptions() options {
	return options{logger: zerolog.Nop()}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSkipPreflight asks the node to skip transaction simulation before
// broadcasting.
func WithSkipPreflight(skip bool) Option {
	return func(o *options) { o.skipPreflight = skip }
}

// Client issues JSON-RPC calls over a blocking Transport. It keeps no state
// between calls and is safe for concurrent use if the Transport is.
type Client struct {
	rpcURL    string
	transport Transport
	opts      options
}

func New(rpcURL string, transport Transport, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		rpcURL:    strings.TrimSpace(rpcURL),
		transport: transport,
		opts:      o,
	}
}

func (c *Client) URL() string { return c.rpcURL }

func (c *Client) GetLatestBlockhash(ctx context.Context, commitment Commitment) (solana.Hash, error) {
	var reqBuf [MaxRequestBodySize]byte
	var respBuf [ResponseBufferSize]byte

	req := fixedbuf.New(reqBuf[:])
	if err := writeBlockhashRequest(&req, commitment); err != nil {
		return solana.Hash{}, err
	}
	resp, err := c.post(ctx, "getLatestBlockhash", req.Bytes(), respBuf[:])
	if err != nil {
		return solana.Hash{}, err
	}
	return ExtractBlockhash(resp)
}

// SendTransaction serializes and submits a signed transaction and returns
// the signature reported by the node.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	var txBuf [solana.PacketDataSize]byte
	n, err := tx.MarshalInto(txBuf[:])
	if err != nil {
		return solana.Signature{}, err
	}
	return c.SendRawTransaction(ctx, txBuf[:n])
}

func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (solana.Signature, error) {
	var reqBuf [MaxRequestBodySize]byte
	var respBuf [ResponseBufferSize]byte

	req := fixedbuf.New(reqBuf[:])
	if err := writeSendRequest(&req, rawTx, c.opts.skipPreflight); err != nil {
		return solana.Signature{}, err
	}
	resp, err := c.post(ctx, "sendTransaction", req.Bytes(), respBuf[:])
	if err != nil {
		return solana.Signature{}, err
	}
	return ExtractSignature(resp)
}

func (c *Client) post(ctx context.Context, method string, body, resp []byte) ([]byte, error) {
	if c.rpcURL == "" {
		return nil, ErrMissingRPCURL
	}
	if c.transport == nil {
		return nil, errors.Wrap(ErrUnsupported, "no transport configured")
	}
	start := time.Now()
	out, err := c.transport.PostJSON(ctx, c.rpcURL, body, resp)
	logCall(c.opts.logger, method, len(body), len(out), start, err)
	return out, classify(err)
}

func logCall(l zerolog.Logger, method string, sent, received int, start time.Time, err error) {
	if err != nil {
		l.Warn().Err(err).Str("method", method).Dur("elapsed", time.Since(start)).Msg("rpc call failed")
		return
	}
	l.Debug().
		Str("method", method).
		Int("request_bytes", sent).
		Int("response_bytes", received).
		Dur("elapsed", time.Since(start)).
		Msg("rpc call")
}
