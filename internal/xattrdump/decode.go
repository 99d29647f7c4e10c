package xattrdump

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/restic/get-all-xattrs/internal/errors"
)

// Attribute is a decoded name/value pair.
type Attribute struct {
	Name  []byte
	Value []byte
}

func (a Attribute) String() string {
	return fmt.Sprintf("%q=%q", a.Name, a.Value)
}

// RecordReader decodes the records written by a Dumper.
//
// Without TerminateEmptyValues an attribute with an empty value is glued to
// the following token. If that token is the separator, the attribute is
// recovered. If it is the name of the next attribute, both names are
// returned as a single name, the boundary is lost.
type RecordReader struct {
	rd         *bufio.Reader
	terminated bool
}

// NewRecordReader returns a reader for records written with opts.
func NewRecordReader(rd io.Reader, opts Options) *RecordReader {
	return &RecordReader{
		rd:         bufio.NewReader(rd),
		terminated: opts.TerminateEmptyValues,
	}
}

// Next returns the attributes of the next record, in the order they were
// written. It returns io.EOF if the input ends before a new record starts
// and io.ErrUnexpectedEOF if it ends within a record.
func (r *RecordReader) Next() ([]Attribute, error) {
	var attrs []Attribute
	first := true

	for {
		line, err := r.rd.ReadString('\n')
		if err == io.EOF {
			if first && line == "" {
				return nil, io.EOF
			}
			return nil, errors.WithStack(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}
		first = false
		line = strings.TrimSuffix(line, "\n")

		if line == Separator {
			return attrs, nil
		}

		name, value, hasValue := strings.Cut(line, " ")
		if !hasValue {
			glued := strings.TrimSuffix(line, Separator)
			if glued == line && !r.terminated {
				return nil, errors.Errorf("malformed line %q", line)
			}

			n, err := decodeHex(glued)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, Attribute{Name: n, Value: []byte{}})

			if glued != line {
				return attrs, nil
			}
			continue
		}

		n, err := decodeHex(name)
		if err != nil {
			return nil, err
		}
		v, err := decodeHex(value)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attribute{Name: n, Value: v})
	}
}

// decodeHex decodes lower-case hex, as written by the encoder.
func decodeHex(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return nil, errors.Errorf("invalid character %q in hex token %q", c, s)
		}
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %q", s)
	}
	return b, nil
}
