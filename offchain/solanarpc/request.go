package solanarpc

import (
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/internal/fixedbuf"
	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

const (
	// MaxRequestBodySize fits a base64 packet-sized transaction plus the
	// sendTransaction envelope.
	MaxRequestBodySize = 2048

	// ResponseBufferSize bounds every reply the clients read.
	ResponseBufferSize = 4096
)

const (
	blockhashRequestPrefix = `{"jsonrpc":"2.0","id":1,"method":"getLatestBlockhash","params":[{"commitment":"`
	blockhashRequestSuffix = `"}]}`

	sendRequestPrefix        = `{"jsonrpc":"2.0","id":1,"method":"sendTransaction","params":["`
	sendRequestSuffix        = `",{"encoding":"base64"}]}`
	sendRequestSuffixNoCheck = `",{"encoding":"base64","skipPreflight":true}]}`
)

func writeBlockhashRequest(buf *fixedbuf.Buffer, c Commitment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, s := range []string{blockhashRequestPrefix, string(c), blockhashRequestSuffix} {
		if _, err := buf.WriteString(s); err != nil {
			return requestTooLarge(err)
		}
	}
	return nil
}

// writeSendRequest base64-encodes the serialized transaction straight into
// the request body.
func writeSendRequest(buf *fixedbuf.Buffer, rawTx []byte, skipPreflight bool) error {
	if len(rawTx) == 0 {
		return errors.Wrap(solana.ErrInvalid, "empty transaction")
	}
	if len(rawTx) > solana.PacketDataSize {
		return errors.Wrapf(solana.ErrTransactionTooLarge, "transaction is %d bytes", len(rawTx))
	}
	if _, err := buf.WriteString(sendRequestPrefix); err != nil {
		return requestTooLarge(err)
	}
	region, err := buf.Extend(base64.StdEncoding.EncodedLen(len(rawTx)))
	if err != nil {
		return requestTooLarge(err)
	}
	base64.StdEncoding.Encode(region, rawTx)

	suffix := sendRequestSuffix
	if skipPreflight {
		suffix = sendRequestSuffixNoCheck
	}
	if _, err := buf.WriteString(suffix); err != nil {
		return requestTooLarge(err)
	}
	return nil
}

func requestTooLarge(err error) error {
	return &requestSizeError{cause: err}
}

// requestSizeError reports a request body that does not fit its buffer. It
// matches solana.ErrTransactionTooLarge and unwraps to the buffer error.
type requestSizeError struct {
	cause error
}

func (e *requestSizeError) Error() string {
	return solana.ErrTransactionTooLarge.Error() + ": request body: " + e.cause.Error()
}

func (e *requestSizeError) Unwrap() []error {
	return []error{solana.ErrTransactionTooLarge, e.cause}
}
