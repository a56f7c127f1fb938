package http

import "testing"

func TestParseHeaderBlockBasic(t *testing.T) {
	raw := "GET /hello?x=1 HTTP/1.1\r\nHost: example.com\r\nContent-Length: 5\r\n\r\n"
	req := NewRequest(16)

	if err := ParseHeaderBlock([]byte(raw), req, 8192); err != nil {
		t.Fatalf("ParseHeaderBlock: %v", err)
	}
	if req.Method != MethodGET {
		t.Errorf("Method = %v, want GET", req.Method)
	}
	if req.URI != "/hello?x=1" {
		t.Errorf("URI = %q", req.URI)
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q", req.Version)
	}
	if req.ContentLength != 5 {
		t.Errorf("ContentLength = %d, want 5", req.ContentLength)
	}
	host, ok := req.Headers.Get("Host")
	if !ok || host != "example.com" {
		t.Errorf("Host = %q, ok=%v", host, ok)
	}
}

func TestParseHeaderBlockInvalidMethod(t *testing.T) {
	req := NewRequest(16)
	err := ParseHeaderBlock([]byte("FOO / HTTP/1.1\r\n\r\n"), req, 8192)
	if err != ErrInvalidMethod {
		t.Errorf("err = %v, want ErrInvalidMethod", err)
	}
}

func TestParseHeaderBlockUnsupportedVersion(t *testing.T) {
	req := NewRequest(16)
	err := ParseHeaderBlock([]byte("GET / HTTP/1.0\r\n\r\n"), req, 8192)
	if err != ErrHTTPVersionNotSupported {
		t.Errorf("err = %v, want ErrHTTPVersionNotSupported", err)
	}
}

func TestParseHeaderBlockURITooLong(t *testing.T) {
	req := NewRequest(16)
	longURI := make([]byte, 20)
	for i := range longURI {
		longURI[i] = 'a'
	}
	raw := append([]byte("GET /"), longURI...)
	raw = append(raw, []byte(" HTTP/1.1\r\n\r\n")...)

	err := ParseHeaderBlock(raw, req, 10)
	if err != ErrURITooLong {
		t.Errorf("err = %v, want ErrURITooLong", err)
	}
}

func TestParseHeaderBlockTooManyHeaders(t *testing.T) {
	req := NewRequest(1)
	raw := "GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\n\r\n"
	if err := ParseHeaderBlock([]byte(raw), req, 8192); err != ErrTooManyHeaders {
		t.Errorf("err = %v, want ErrTooManyHeaders", err)
	}
}

func TestParseHeaderBlockMalformedRequestLine(t *testing.T) {
	req := NewRequest(16)
	if err := ParseHeaderBlock([]byte("garbage\r\n\r\n"), req, 8192); err != ErrMalformedRequest {
		t.Errorf("err = %v, want ErrMalformedRequest", err)
	}
}

func TestFindHeaderBlockEnd(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\nHost: a\r\n\r\nbody-bytes")
	idx := FindHeaderBlockEnd(buf, len(buf))
	want := len("GET / HTTP/1.1\r\nHost: a\r\n\r\n")
	if idx != want {
		t.Errorf("idx = %d, want %d", idx, want)
	}
}

func TestFindHeaderBlockEndNotFound(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\nHost: a")
	if idx := FindHeaderBlockEnd(buf, len(buf)); idx != -1 {
		t.Errorf("idx = %d, want -1", idx)
	}
}
