package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/two-party-ecdsa/internal/params"
)

var (
	ErrCommitmentLength   = errors.New("hash: commitment has the wrong length")
	ErrDecommitmentLength = errors.New("hash: decommitment has the wrong length")
)

// Commitment = H(state, values, Decommitment), where state is the transcript it was computed on.
type Commitment []byte

// Decommitment is the random opening of a Commitment.
type Decommitment []byte

func (c Commitment) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, c) }

func (Commitment) Domain() string { return "Commitment" }

// Validate checks that c has the length of a digest.
func (c Commitment) Validate() error {
	if len(c) != DigestLengthBytes {
		return fmt.Errorf("%w: %d bytes", ErrCommitmentLength, len(c))
	}
	return nil
}

func (d Decommitment) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, d) }

func (Decommitment) Domain() string { return "Decommitment" }

// Validate checks that d has params.SecBytes bytes.
func (d Decommitment) Validate() error {
	if len(d) != params.SecBytes {
		return fmt.Errorf("%w: %d bytes", ErrDecommitmentLength, len(d))
	}
	return nil
}

// Commit samples a fresh decommitment and commits to data with it.
// The state of hash is not modified.
func (hash *Hash) Commit(data ...any) (Commitment, Decommitment, error) {
	d := make(Decommitment, params.SecBytes)
	if _, err := rand.Read(d); err != nil {
		return nil, nil, fmt.Errorf("hash: commit: %w", err)
	}
	c, err := hash.commitment(d, data)
	if err != nil {
		return nil, nil, err
	}
	return c, d, nil
}

// Decommit reports whether d opens c to data.
func (hash *Hash) Decommit(c Commitment, d Decommitment, data ...any) bool {
	if c.Validate() != nil || d.Validate() != nil {
		return false
	}
	expected, err := hash.commitment(d, data)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(expected, c) == 1
}

func (hash *Hash) commitment(d Decommitment, data []any) (Commitment, error) {
	h := hash.Clone()
	if err := h.WriteAny(data...); err != nil {
		return nil, fmt.Errorf("hash: commit: %w", err)
	}
	if err := h.WriteAny(d); err != nil {
		return nil, fmt.Errorf("hash: commit: %w", err)
	}
	return h.Sum(), nil
}
