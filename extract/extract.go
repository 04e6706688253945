// Package extract ships ready-made tuple extraction strategies. All of
// them produce string keys and raw byte values, the shape the wire-level
// sinks consume.
package extract

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/timothysteffens/ignite/routing"
	"github.com/timothysteffens/ignite/streamer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONField extracts one tuple from a JSON body: the key comes from
// keyField, the value from valueField. A missing field is an error.
func JSONField(keyField, valueField string) streamer.SingleTupleExtractor[string, []byte] {
	return func(msg *routing.Message) (string, []byte, error) {
		key := jsoniter.Get(msg.Body, keyField)
		if key.ValueType() == jsoniter.InvalidValue {
			return "", nil, fmt.Errorf("extract: field %q not found in message %s", keyField, msg.ID)
		}
		val := jsoniter.Get(msg.Body, valueField)
		if val.ValueType() == jsoniter.InvalidValue {
			return "", nil, fmt.Errorf("extract: field %q not found in message %s", valueField, msg.ID)
		}
		return key.ToString(), []byte(val.ToString()), nil
	}
}

// JSONObject flattens a top-level JSON object into one tuple per field.
// Scalar values keep their string form; nested values stay JSON-encoded.
func JSONObject() streamer.MultipleTupleExtractor[string, []byte] {
	return func(msg *routing.Message) (map[string][]byte, error) {
		var doc map[string]any
		if err := json.Unmarshal(msg.Body, &doc); err != nil {
			return nil, fmt.Errorf("extract: message %s is not a JSON object: %w", msg.ID, err)
		}
		out := make(map[string][]byte, len(doc))
		for k, v := range doc {
			switch t := v.(type) {
			case string:
				out[k] = []byte(t)
			default:
				b, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("extract: field %q: %w", k, err)
				}
				out[k] = b
			}
		}
		return out, nil
	}
}

// HeaderKey keys the tuple by a message header; the value is the raw
// body. A missing or empty header is an error.
func HeaderKey(header string) streamer.SingleTupleExtractor[string, []byte] {
	return func(msg *routing.Message) (string, []byte, error) {
		k := msg.Header(header)
		if k == "" {
			return "", nil, fmt.Errorf("extract: header %q missing on message %s", header, msg.ID)
		}
		return k, msg.Body, nil
	}
}
