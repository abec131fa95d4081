package solanarpc

import "github.com/pkg/errors"

type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

func (c Commitment) Validate() error {
	switch c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return nil
	default:
		return errors.Wrapf(ErrUnsupported, "commitment %q", string(c))
	}
}

func ParseCommitment(s string) (Commitment, error) {
	c := Commitment(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}
