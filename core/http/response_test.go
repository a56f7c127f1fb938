package http

import (
	"strings"
	"testing"
)

func TestResponseEncodeIncludesStatusAndHeaders(t *testing.T) {
	r := NewResponse(256, 4)
	r.SetStatus(StatusOK)
	r.SetMime(MimeApplicationJSON)
	r.SetBody([]byte(`{"ok":true}`))
	r.SetHeader("X-Test", "1")

	encoded := string(r.Encode())

	if !strings.HasPrefix(encoded, "HTTP/1.1 200 OK\r\n") {
		t.Errorf("missing status line: %q", encoded)
	}
	if !strings.Contains(encoded, "X-Test: 1\r\n") {
		t.Errorf("missing custom header: %q", encoded)
	}
	if !strings.Contains(encoded, "Content-Type: application/json\r\n") {
		t.Errorf("missing content type: %q", encoded)
	}
	if !strings.Contains(encoded, "Content-Length: 11\r\n") {
		t.Errorf("missing content length: %q", encoded)
	}
	if !strings.HasSuffix(encoded, "\r\n\r\n") {
		t.Errorf("missing terminating blank line: %q", encoded)
	}
	if strings.Contains(encoded, `{"ok":true}`) {
		t.Error("Encode must not append the body")
	}
}

func TestResponseDefaultMime(t *testing.T) {
	r := NewResponse(256, 4)
	r.SetStatus(StatusNoContent)
	encoded := string(r.Encode())
	if !strings.Contains(encoded, "Content-Type: application/octet-stream\r\n") {
		t.Errorf("missing default mime: %q", encoded)
	}
}

func TestResponseResetClearsStatusToUnset(t *testing.T) {
	r := NewResponse(256, 4)
	r.SetStatus(StatusOK)
	r.Reset()
	if r.StatusCode() != 0 {
		t.Errorf("StatusCode after Reset = %d, want 0 (unset)", r.StatusCode())
	}
}

func TestResponseSetHeaderDroppedPastCapacity(t *testing.T) {
	r := NewResponse(256, 1)
	r.SetHeader("A", "1")
	r.SetHeader("B", "2")
	encoded := string(r.Encode())
	if strings.Contains(encoded, "B: 2") {
		t.Error("header past capacity should be dropped")
	}
}
