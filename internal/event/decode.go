package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilPayload is returned when an event carries no payload
var ErrNilPayload = errors.New("event has no payload")

// DecodePayload returns the payload as T. In-process publishers hand over
// the typed struct or a pointer to it; anything else, such as a map read
// back from a dead-letter file, is converted through JSON.
func DecodePayload[T any](payload interface{}) (T, error) {
	var out T
	switch v := payload.(type) {
	case nil:
		return out, ErrNilPayload
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, ErrNilPayload
		}
		return *v, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("encode %T payload: %w", payload, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode payload as %T: %w", out, err)
	}
	return out, nil
}
