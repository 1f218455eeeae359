package tool

import "encoding/json"

// Serialize renders a handler result as tool message content.
// Strings and raw JSON pass through unchanged; anything else is marshaled.
func Serialize(v any) (string, error) {
	switch r := v.(type) {
	case nil:
		return "null", nil
	case string:
		return r, nil
	case json.RawMessage:
		return string(r), nil
	case []byte:
		return string(r), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ErrorContent renders a tool failure as a {"error": "..."} payload.
func ErrorContent(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
