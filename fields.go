package tally

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// fields is a JSON object whose keys are encoded in order. Books, orders, buys
// and amounts use it so that the API shows them the way the tables do.
type fields []field

type field struct {
	key   string
	value any
	// omit drops the field, like a money without a currency.
	omit bool
}

func (f fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	sep := false
	for _, fd := range f {
		if fd.omit {
			continue
		}
		v, err := json.Marshal(fd.value)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %q: %w", fd.key, err)
		}
		if sep {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(fd.key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		sep = true
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
