package newsdata

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
)

var errTrailingData = stderrors.New("unexpected data after top-level JSON value")

// decodeBody decodes a response body per mode. Empty bodies decode to nil.
func decodeBody(mode DecodeMode, body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if mode == DecodeObject {
		dec.UseNumber()
	}

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}
