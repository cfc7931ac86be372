package envelope

import (
	"encoding/json"
	"fmt"
)

// DecodeRequest parses a JSON request and applies MakeRequest's checks.
func DecodeRequest(b []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(b, &req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	return MakeRequest(req.Target, req.Cmd, req.Param)
}

// DecodeResponse parses a JSON response and validates it under p.
func (p Policy) DecodeResponse(b []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(b, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return p.MakeResponse(resp.Type, resp.Data)
}
