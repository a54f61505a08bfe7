package round

import (
	"encoding/binary"
	"io"
	"strconv"
)

// Number identifies a round of a two-party protocol, starting at 1.
// Terminal rounds (Output and Abort) report 0, and messages with round 0 signal an abort.
type Number uint16

// WriteTo writes n as two big endian bytes.
func (n Number) WriteTo(w io.Writer) (int64, error) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(n))
	written, err := w.Write(buf[:])
	return int64(written), err
}

// Domain implements hash.WriterToWithDomain.
func (Number) Domain() string { return "Round Number" }

func (n Number) String() string {
	if n == 0 {
		return "terminal"
	}
	return "round " + strconv.Itoa(int(n))
}
