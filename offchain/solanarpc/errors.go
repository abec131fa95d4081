package solanarpc

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

// Error classes returned by the clients, in addition to the solana package's
// ErrInvalid and ErrTransactionTooLarge.
var (
	ErrNetwork       = errors.New("network failure")
	ErrResponseParse = errors.New("unparseable rpc response")
	ErrUnsupported   = errors.New("unsupported")
	ErrRPC           = errors.New("solana rpc error")
)

var ErrMissingRPCURL = errors.Wrap(solana.ErrInvalid, "missing rpc url")

// NetworkError is a transport failure, including timeouts and cancellation.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNetwork.Error(), e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// RPCError is a JSON-RPC error object returned in place of the expected
// result. It matches both ErrRPC and ErrResponseParse.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrRPC.Error(), e.Code, e.Message)
}

func (e *RPCError) Is(target error) bool {
	return target == ErrRPC || target == ErrResponseParse
}

// classify leaves classified errors alone and treats everything else a
// transport returns as a network failure.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNetwork),
		errors.Is(err, ErrResponseParse),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, solana.ErrInvalid),
		errors.Is(err, solana.ErrTransactionTooLarge):
		return err
	default:
		return &NetworkError{Err: err}
	}
}
