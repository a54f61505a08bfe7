package hash

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/two-party-ecdsa/internal/params"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of the output of Sum.
const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function we use for generating commitments, Fiat-Shamir challenges,
// and session identifiers.
//
// Internally, this is a wrapper around blake3, whose extendable output is used
// to derive challenges of arbitrary length.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct, writing each of the given data in order.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *saferith.Nat
//   - *saferith.Int
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//   - encoding.BinaryMarshaler
//
// This function will apply its own domain separation for the first types.
// WriterToWithDomain already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...any) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			toBeWritten = &BytesWithDomain{"[]byte", t}
		case *saferith.Nat:
			if t == nil {
				return errors.New("hash.WriteAny: nil *saferith.Nat")
			}
			toBeWritten = &BytesWithDomain{"saferith.Nat", t.Bytes()}
		case *saferith.Int:
			if t == nil {
				return errors.New("hash.WriteAny: nil *saferith.Int")
			}
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.WriteAny: %w", err)
			}
			toBeWritten = &BytesWithDomain{"saferith.Int", bytes}
		case *saferith.Modulus:
			if t == nil {
				return errors.New("hash.WriteAny: nil *saferith.Modulus")
			}
			toBeWritten = &BytesWithDomain{"saferith.Modulus", t.Bytes()}
		case WriterToWithDomain:
			toBeWritten = t
		case encoding.BinaryMarshaler:
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.WriteAny: %w", err)
			}
			toBeWritten = &BytesWithDomain{
				TheDomain: "BinaryMarshaler",
				Bytes:     bytes,
			}
		default:
			return fmt.Errorf("hash.WriteAny: invalid type %T", d)
		}
		if err := writeFramed(hash.h, toBeWritten); err != nil {
			return err
		}
	}
	return nil
}

// writeFramed writes the domain and the data of an object, each prefixed by its length,
// so that concatenations of different objects can never collide.
func writeFramed(h *blake3.Hasher, object WriterToWithDomain) error {
	domain := []byte(object.Domain())
	var lengths [8]byte
	binary.BigEndian.PutUint64(lengths[:], uint64(len(domain)))
	_, _ = h.Write(lengths[:])
	_, _ = h.Write(domain)

	buf := new(countingBuffer)
	if _, err := object.WriteTo(buf); err != nil {
		return fmt.Errorf("hash.WriteAny: %w", err)
	}
	binary.BigEndian.PutUint64(lengths[:], uint64(len(buf.data)))
	_, _ = h.Write(lengths[:])
	_, _ = h.Write(buf.data)
	return nil
}

type countingBuffer struct {
	data []byte
}

func (b *countingBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// Fork returns a clone of the hash to which data has been written.
//
// It is used to derive independent transcripts for sub-protocols, without
// modifying the state of hash.
func (hash *Hash) Fork(data ...any) *Hash {
	newHash := hash.Clone()
	_ = newHash.WriteAny(data...)
	return newHash
}
