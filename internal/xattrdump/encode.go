package xattrdump

import (
	"encoding/hex"
	"io"
)

// Separator ends the record of every path.
const Separator = "--"

type encoder struct {
	buf []byte
}

// hex appends the lower-case hex encoding of data to the encoder's scratch
// buffer and returns it.
func (e *encoder) hex(data []byte) []byte {
	n := hex.EncodedLen(len(data))
	if cap(e.buf) < n {
		e.buf = make([]byte, n)
	}
	e.buf = e.buf[:n]
	hex.Encode(e.buf, data)
	return e.buf
}

func (e *encoder) writeHex(w io.Writer, data []byte) error {
	_, err := w.Write(e.hex(data))
	return err
}
