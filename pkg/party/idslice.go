package party

import (
	"encoding/binary"
	"io"
	"slices"
)

// IDSlice is a sorted set of IDs.
type IDSlice []ID

// NewIDSlice returns ids sorted and without duplicates. The argument is left untouched.
func NewIDSlice(ids []ID) IDSlice {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// Contains reports whether every one of ids belongs to s.
func (s IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if _, found := slices.BinarySearch(s, id); !found {
			return false
		}
	}
	return true
}

// WriteTo writes every ID in order, each preceded by its length on two bytes.
// An empty set cannot be written.
func (s IDSlice) WriteTo(w io.Writer) (int64, error) {
	if len(s) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	var total int64
	var length [2]byte
	for _, id := range s {
		binary.BigEndian.PutUint16(length[:], uint16(len(id)))
		n, err := w.Write(length[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
		m, err := id.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (IDSlice) Domain() string { return "IDSlice" }
