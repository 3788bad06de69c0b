package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
)

// Envelope is an unwrapped upstream response. Workfront wraps every payload
// as {"data": ...}; Data holds that member verbatim.
type Envelope struct {
	// Data is the raw data member, nil when the body carried none
	Data json.RawMessage
}

// HasData reports whether the body carried a data member, including an
// explicit null
func (e Envelope) HasData() bool {
	return e.Data != nil
}

var nullLiteral = []byte("null")

// decodeEnvelope unwraps a response body.
//
// A JSON object yields its data member. A JSON null body has no members to
// read and is reported as malformed. Anything else (empty, not JSON, an
// array or a scalar) yields an empty envelope without error: such bodies
// simply carry no data member.
func decodeEnvelope(body []byte) (Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Envelope{}, nil
	}

	switch trimmed[0] {
	case '{':
		var members map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &members); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", errors.ErrParsingFailed, err)
		}
		data, ok := members["data"]
		if !ok {
			return Envelope{}, nil
		}
		if data == nil {
			data = json.RawMessage(nullLiteral)
		}
		return Envelope{Data: data}, nil
	case 'n':
		return Envelope{}, fmt.Errorf("%w: response body is null", errors.ErrInvalidData)
	default:
		return Envelope{}, nil
	}
}
