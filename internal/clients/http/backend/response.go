package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a buffered 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Attempt that produced this response.
	Attempt int
}

// Decode unmarshals the JSON body into out. Empty bodies are a no-op.
func (r *Response) Decode(out any) error {
	if r == nil || out == nil || len(r.Body) == 0 || r.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
