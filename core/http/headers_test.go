package http

import "testing"

func TestHeadersGetCaseInsensitive(t *testing.T) {
	h := NewHeaders(4)
	h.Add("Content-Type", "text/plain")

	if v, ok := h.Get("content-type"); !ok || v != "text/plain" {
		t.Errorf("Get(content-type) = %q, %v", v, ok)
	}
}

func TestHeadersCapacity(t *testing.T) {
	h := NewHeaders(1)
	if !h.Add("A", "1") {
		t.Fatal("first Add should succeed")
	}
	if h.Add("B", "2") {
		t.Fatal("second Add should fail past capacity")
	}
}

func TestHeadersReset(t *testing.T) {
	h := NewHeaders(4)
	h.Add("A", "1")
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", h.Len())
	}
	if _, ok := h.Get("A"); ok {
		t.Error("Get should miss after Reset")
	}
}

func TestHeadersGetDefault(t *testing.T) {
	h := NewHeaders(4)
	if v := h.GetDefault("Connection", "keep-alive"); v != "keep-alive" {
		t.Errorf("GetDefault = %q, want keep-alive", v)
	}
	h.Add("Connection", "close")
	if v := h.GetDefault("Connection", "keep-alive"); v != "close" {
		t.Errorf("GetDefault = %q, want close", v)
	}
}
