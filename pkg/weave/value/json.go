// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package value

import (
	"fmt"

	json "github.com/segmentio/encoding/json"
)

// jsonEnvelope is the wire shape for every Value: a type tag plus a
// variant-specific payload, so a generic UnmarshalValue can dispatch
// without external schema information (spec.md §4.15, resolving the
// round-trip needs of Result serialization).
type jsonEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON renders a Number as a decimal string to avoid precision loss
// through a float64 intermediate (spec.md §4.15).
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEnvelope{Kind: "Number", Data: quoteJSON(n.Decimal())})
}

// MarshalJSON implements json.Marshaler for String_.
func (s String_) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEnvelope{Kind: "String", Data: quoteJSON(string(s))})
}

// MarshalJSON implements json.Marshaler for Boolean.
func (b Boolean) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(bool(b))
	if err != nil {
		return nil, err
	}

	return json.Marshal(jsonEnvelope{Kind: "Boolean", Data: data})
}

// MarshalJSON implements json.Marshaler for *Object, preserving insertion
// order via a list of {key, value} pairs rather than a Go map (which would
// not round-trip order).
func (o *Object) MarshalJSON() ([]byte, error) {
	type entry struct {
		Key   string `json:"key"`
		Value Value  `json:"value"`
	}

	entries := make([]entry, o.Len())
	for i, k := range o.keys {
		entries[i] = entry{Key: k, Value: o.values[i]}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	return json.Marshal(jsonEnvelope{Kind: "Object", Data: data})
}

// MarshalJSON implements json.Marshaler for *List.
func (l *List) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(l.items)
	if err != nil {
		return nil, err
	}

	return json.Marshal(jsonEnvelope{Kind: "List", Data: data})
}

// MarshalJSON implements json.Marshaler for Error.
func (e Error) MarshalJSON() ([]byte, error) {
	type payload struct {
		ErrKind ErrorKind `json:"errKind"`
		Message string    `json:"message"`
	}

	data, err := json.Marshal(payload{ErrKind: e.ErrKind, Message: e.Message})
	if err != nil {
		return nil, err
	}

	return json.Marshal(jsonEnvelope{Kind: "Error", Data: data})
}

// Function and Pending are host-supplied or in-flight values with no
// meaningful wire representation; marshalling one is a caller error.
func (f Function) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("value: cannot marshal a Function value (%s)", f.Name)
}

func (p Pending) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("value: cannot marshal a Pending value before it resolves")
}

func quoteJSON(s string) []byte {
	data, _ := json.Marshal(s)
	return data
}

// UnmarshalValue decodes a Value previously produced by one of the
// MarshalJSON methods above.
func UnmarshalValue(data []byte) (Value, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case "Number":
		var text string
		if err := json.Unmarshal(env.Data, &text); err != nil {
			return nil, err
		}

		n, ok := ParseNumber(text)
		if !ok {
			return nil, fmt.Errorf("value: invalid Number literal %q", text)
		}

		return n, nil
	case "String":
		var text string
		if err := json.Unmarshal(env.Data, &text); err != nil {
			return nil, err
		}

		return NewString(text), nil
	case "Boolean":
		var b bool
		if err := json.Unmarshal(env.Data, &b); err != nil {
			return nil, err
		}

		return Boolean(b), nil
	case "Object":
		type entry struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}

		var entries []entry
		if err := json.Unmarshal(env.Data, &entries); err != nil {
			return nil, err
		}

		obj := NewObject(DefaultComparer())

		for _, e := range entries {
			v, err := UnmarshalValue(e.Value)
			if err != nil {
				return nil, err
			}

			obj.Set(e.Key, v)
		}

		return obj, nil
	case "List":
		var raws []json.RawMessage
		if err := json.Unmarshal(env.Data, &raws); err != nil {
			return nil, err
		}

		items := make([]Value, len(raws))

		for i, r := range raws {
			v, err := UnmarshalValue(r)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return NewList(items...), nil
	case "Error":
		var payload struct {
			ErrKind ErrorKind `json:"errKind"`
			Message string    `json:"message"`
		}

		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, err
		}

		return NewError(payload.ErrKind, payload.Message), nil
	default:
		return nil, fmt.Errorf("value: unknown kind %q", env.Kind)
	}
}
