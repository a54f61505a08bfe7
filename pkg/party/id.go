package party

import "io"

// ID names one of the two parties. Both parties must agree on each other's ID.
type ID string

// WriteTo writes the bytes of id. The empty ID cannot be written.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := io.WriteString(w, string(id))
	return int64(n), err
}

func (ID) Domain() string { return "ID" }
