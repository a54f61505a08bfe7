package hash

import "io"

// WriterToWithDomain is a value that Hash can absorb.
// Its domain keeps values of different types apart when they serialize to the same bytes.
type WriterToWithDomain interface {
	io.WriterTo
	Domain() string
}

// BytesWithDomain tags raw bytes with a domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) { return writeBytes(w, b.Bytes) }

func (b BytesWithDomain) Domain() string { return b.TheDomain }

func writeBytes(w io.Writer, data []byte) (int64, error) {
	n, err := w.Write(data)
	return int64(n), err
}
