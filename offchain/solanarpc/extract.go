package solanarpc

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

// Replies are not parsed as JSON. The extractors search the raw bytes for a
// known field marker and take the string that follows it. This relies on the
// server emitting the field without whitespace after the colon and without
// escape sequences in the value. Both hold for base58 values from standard
// Solana RPC nodes, but a server that pretty-prints its output will not be
// understood.
var (
	blockhashMarker = []byte(`"blockhash":"`)
	resultMarker    = []byte(`"result":"`)

	errorMarker   = []byte(`"error":{`)
	codeMarker    = []byte(`"code":`)
	messageMarker = []byte(`"message":"`)
)

// ExtractBlockhash returns the blockhash of a getLatestBlockhash reply.
func ExtractBlockhash(resp []byte) (solana.Hash, error) {
	v, err := extractString(resp, blockhashMarker)
	if err != nil {
		return solana.Hash{}, err
	}
	h, err := solana.ParseHash(string(v))
	if err != nil {
		return solana.Hash{}, errors.Wrapf(ErrResponseParse, "blockhash %q: %v", v, err)
	}
	return h, nil
}

// ExtractSignature returns the transaction signature of a sendTransaction
// reply.
func ExtractSignature(resp []byte) (solana.Signature, error) {
	v, err := extractString(resp, resultMarker)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := solana.ParseSignature(string(v))
	if err != nil {
		return solana.Signature{}, errors.Wrapf(ErrResponseParse, "signature %q: %v", v, err)
	}
	return sig, nil
}

// extractString returns the bytes between marker and the next quote. When
// the marker is absent, a JSON-RPC error object in resp is returned as an
// *RPCError.
func extractString(resp, marker []byte) ([]byte, error) {
	i := bytes.Index(resp, marker)
	if i < 0 {
		if rpcErr := extractRPCError(resp); rpcErr != nil {
			return nil, rpcErr
		}
		return nil, errors.Wrapf(ErrResponseParse, "missing %s", marker)
	}
	rest := resp[i+len(marker):]
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return nil, errors.Wrapf(ErrResponseParse, "unterminated value after %s", marker)
	}
	return rest[:end], nil
}

func extractRPCError(resp []byte) *RPCError {
	i := bytes.Index(resp, errorMarker)
	if i < 0 {
		return nil
	}
	obj := resp[i+len(errorMarker):]
	out := &RPCError{}

	if j := bytes.Index(obj, codeMarker); j >= 0 {
		num := skipSpace(obj[j+len(codeMarker):])
		end := 0
		for end < len(num) && (num[end] == '-' || (num[end] >= '0' && num[end] <= '9')) {
			end++
		}
		if code, err := strconv.Atoi(string(num[:end])); err == nil {
			out.Code = code
		}
	}
	if j := bytes.Index(obj, messageMarker); j >= 0 {
		msg := obj[j+len(messageMarker):]
		end := 0
		for end < len(msg) && msg[end] != '"' {
			if msg[end] == '\\' {
				end++
			}
			end++
		}
		if end > len(msg) {
			end = len(msg)
		}
		out.Message = string(msg[:end])
	}
	return out
}

func skipSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}
