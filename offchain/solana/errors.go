package solana

import "github.com/pkg/errors"

// Error classes. Every error returned by this package matches exactly one of
// ErrInvalid, ErrTransactionTooLarge or ErrCrypto via errors.Is.
var (
	ErrInvalid             = errors.New("invalid input")
	ErrTransactionTooLarge = errors.New("transaction too large")
	ErrCrypto              = errors.New("crypto failure")
)

var (
	ErrWrongSize        = &classError{class: ErrInvalid, msg: "wrong size"}
	ErrInvalidCharacter = &classError{class: ErrInvalid, msg: "invalid character"}
	ErrNoInstructions   = &classError{class: ErrInvalid, msg: "no instructions"}
	ErrMissingSigner    = &classError{class: ErrInvalid, msg: "missing signer for required signature"}
	ErrUnexpectedSigner = &classError{class: ErrInvalid, msg: "signer is not required by message"}
	ErrTooManyAccounts  = &classError{class: ErrTransactionTooLarge, msg: "too many accounts"}
)

// classError is a refinement of one of the class sentinels.
type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }

// causeError attaches an underlying error to a class or refinement so that
// errors.Is and errors.As reach both.
type causeError struct {
	class error
	cause error
}

func withCause(class, cause error) error {
	return &causeError{class: class, cause: cause}
}

func (e *causeError) Error() string { return e.class.Error() + ": " + e.cause.Error() }

func (e *causeError) Unwrap() []error { return []error{e.class, e.cause} }
