package http

import (
	"bytes"
	"testing"
)

func TestPseudosliceDrainAcrossBoundary(t *testing.T) {
	headers := []byte("HEAD")
	body := []byte("BODYBYTES")
	ps := NewPseudoslice(headers, body)

	if ps.Len() != len(headers)+len(body) {
		t.Fatalf("Len = %d, want %d", ps.Len(), len(headers)+len(body))
	}

	var drained []byte
	for offset := 0; offset < ps.Len(); {
		chunk := ps.Get(offset, 3)
		if len(chunk) == 0 {
			t.Fatal("Get returned empty chunk before draining everything")
		}
		drained = append(drained, chunk...)
		offset += len(chunk)
	}

	want := append(append([]byte{}, headers...), body...)
	if !bytes.Equal(drained, want) {
		t.Errorf("drained = %q, want %q", drained, want)
	}
}

func TestPseudosliceNeverSpansBoundaryInOneCall(t *testing.T) {
	ps := NewPseudoslice([]byte("AB"), []byte("CDEF"))
	chunk := ps.Get(0, 10)
	if string(chunk) != "AB" {
		t.Errorf("chunk = %q, want %q (stopped at header boundary)", chunk, "AB")
	}
}
