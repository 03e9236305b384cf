package example

import (
	"encoding/base64"
	"encoding/json"
)

// EncodeBase64JSON wraps an already-serialized example in the
// {"b64": "..."} JSON line format accepted by online prediction services.
func EncodeBase64JSON(serialized []byte) ([]byte, error) {
	return json.Marshal(struct {
		B64 string `json:"b64"`
	}{B64: base64.StdEncoding.EncodeToString(serialized)})
}
