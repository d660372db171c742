package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// stringFieldPriority is the fixed resolution order for STRING payloads.
// The backend is not consistent about where generated text lives: depending
// on the endpoint (and backend version) it arrives under generatedEmail,
// content, reply, or as the raw body itself.
var stringFieldPriority = []string{"generatedEmail", "content", "reply"}

// Payload is the canonical result of normalizing one raw response. Exactly
// one of Text/Object/List is populated, matching Shape.
type Payload struct {
	Shape  Shape
	Text   string
	Object json.RawMessage
	List   json.RawMessage
}

// Normalize converts a raw backend body into the canonical payload declared
// by the descriptor. It is pure: the same descriptor and body always produce
// the same payload or the same error.
func Normalize(desc Descriptor, body []byte) (Payload, error) {
	switch desc.Shape {
	case ShapeString:
		text, err := normalizeString(desc, body)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Shape: ShapeString, Text: text}, nil
	case ShapeObject:
		obj, err := normalizeObject(desc, body)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Shape: ShapeObject, Object: obj}, nil
	case ShapeList:
		list, err := normalizeList(desc, body)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Shape: ShapeList, List: list}, nil
	default:
		panic(fmt.Sprintf("api: descriptor %q has unknown shape %d", desc.Name, desc.Shape))
	}
}

func normalizeString(desc Descriptor, body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)

	// An object carrying the text under a known field name wins first.
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			for _, field := range stringFieldPriority {
				raw, ok := obj[field]
				if !ok {
					continue
				}
				var s string
				if err := json.Unmarshal(raw, &s); err == nil {
					return s, nil
				}
			}
			return "", shapeError(desc, "object carries none of the known text fields")
		}
		// Not valid JSON after all; fall through to the textual case.
	}

	// A bare JSON string is textual.
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, nil
		}
	}

	// Arrays and other JSON scalars are not text.
	if len(trimmed) > 0 && (trimmed[0] == '[' || !utf8.Valid(trimmed)) {
		return "", shapeError(desc, "payload is not textual")
	}
	if len(trimmed) == 0 {
		return "", shapeError(desc, "empty body")
	}

	// The raw body itself is the text (text/plain responses).
	return string(trimmed), nil
}

func normalizeObject(desc Descriptor, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil || obj == nil {
		// Lenient operations accept a textual acknowledgement body; the
		// success signal already arrived as the 2xx status.
		if desc.Lenient && utf8.Valid(trimmed) {
			wrapped, err := json.Marshal(map[string]string{"message": string(trimmed)})
			if err != nil {
				return nil, shapeError(desc, "re-encoding acknowledgement")
			}
			return wrapped, nil
		}
		return nil, shapeError(desc, "payload is not an object")
	}

	for _, key := range desc.RequiredKeys {
		raw, ok := obj[key]
		if !ok || isJSONNull(raw) {
			return nil, shapeError(desc, fmt.Sprintf("missing required key %q", key))
		}
	}

	// Default omitted optional lists to [] so consumers never see null.
	changed := false
	for _, key := range desc.EmptySliceKeys {
		raw, ok := obj[key]
		if !ok || isJSONNull(raw) {
			obj[key] = json.RawMessage("[]")
			changed = true
		}
	}
	if !changed {
		return json.RawMessage(bytes.TrimSpace(body)), nil
	}

	// Re-encode with the defaults applied. Map marshalling sorts keys, so
	// the output is deterministic for a given input.
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, shapeError(desc, "re-encoding object")
	}
	return out, nil
}

func normalizeList(desc Descriptor, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, shapeError(desc, "payload is not a list")
	}
	// Empty list is a valid result, distinct from an error.
	return json.RawMessage(trimmed), nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func shapeError(desc Descriptor, detail string) *Error {
	return &Error{
		Kind:    KindUnrecognizedShape,
		Message: fmt.Sprintf("%s: expected %s payload: %s", desc.Name, desc.Shape, detail),
	}
}
