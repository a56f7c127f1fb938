package http

import (
	"bytes"
	"strconv"
	"unsafe"
)

// bytesToString reinterprets b as a string without copying. The returned
// string shares memory with b and must not outlive it — every caller here
// is handing back a slice of the provision's receive buffer, which is
// exactly the lifetime the Request is documented to have.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

// ParseHeaderBlock parses block — the request line through and including
// the terminating "\r\n\r\n" — into req. req.Headers is reset by the caller
// beforehand (the provision's clear step); ParseHeaderBlock only appends.
//
// The method must be one of the known verbs, the URI must not exceed
// uriMax bytes, the version must be exactly "HTTP/1.1", and headers are
// capped at whatever capacity req.Headers was constructed with.
func ParseHeaderBlock(block []byte, req *Request, uriMax int) error {
	lineEnd := bytes.IndexByte(block, '\n')
	if lineEnd < 0 {
		return ErrMalformedRequest
	}
	line := block[:lineEnd]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	sp1 := bytes.IndexByte(line, ' ')
	if sp1 <= 0 {
		return ErrMalformedRequest
	}
	rest := line[sp1+1:]
	sp2 := bytes.IndexByte(rest, ' ')
	if sp2 < 0 {
		return ErrMalformedRequest
	}

	methodTok := bytesToString(line[:sp1])
	uriTok := rest[:sp2]
	versionTok := bytesToString(rest[sp2+1:])

	method, ok := ParseMethod(methodTok)
	if !ok {
		return ErrInvalidMethod
	}
	if len(uriTok) > uriMax {
		return ErrURITooLong
	}
	if versionTok != "HTTP/1.1" {
		return ErrHTTPVersionNotSupported
	}

	req.Method = method
	req.URI = bytesToString(uriTok)
	req.Path = req.URI
	req.Version = versionTok

	headerBlock := block[lineEnd+1:]
	if err := parseHeaders(headerBlock, req); err != nil {
		return err
	}

	if cl, ok := req.Headers.Get("Content-Length"); ok {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 {
			return ErrMalformedRequest
		}
		req.ContentLength = n
	}

	return nil
}

// parseHeaders parses "Name: Value\r\n" lines up to the terminating blank
// line. Leading/trailing whitespace around values is trimmed.
func parseHeaders(data []byte, req *Request) error {
	for {
		lineEnd := bytes.IndexByte(data, '\n')
		if lineEnd < 0 {
			return ErrMalformedRequest
		}
		line := data[:lineEnd]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		data = data[lineEnd+1:]

		if len(line) == 0 {
			return nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return ErrMalformedRequest
		}
		name := bytesToString(trimSpace(line[:colon]))
		value := bytesToString(trimSpace(line[colon+1:]))

		if !req.Headers.Add(name, value) {
			return ErrTooManyHeaders
		}
	}
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	for len(b) > 0 && isSpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// FindHeaderBlockEnd scans the last scanWindow bytes of buf for "\r\n\r\n"
// and returns the index one past the delimiter (i.e. the length of the
// header block including the delimiter), or -1 if not found.
//
// Scanning only a bounded tail of the buffer, rather than the whole thing,
// keeps each recv's parse attempt O(recv size) instead of O(total buffered
// size) while still finding a delimiter split across two recvs as long as
// scanWindow covers the delimiter's length minus one.
func FindHeaderBlockEnd(buf []byte, scanWindow int) int {
	start := len(buf) - scanWindow
	if start < 0 {
		start = 0
	}
	idx := bytes.Index(buf[start:], []byte("\r\n\r\n"))
	if idx < 0 {
		return -1
	}
	return start + idx + 4
}
