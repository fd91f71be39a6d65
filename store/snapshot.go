package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Snapshot is an immutable copy of a network response: status, headers and
// body. It is the unit stored under a request key.
type Snapshot struct {
	Status int         `json:"status"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body,omitempty"`
}

// Capture drains resp's body into a Snapshot and replaces the body with a
// fresh reader so the response remains usable by the caller.
func Capture(resp *http.Response) (*Snapshot, error) {
	var body []byte
	if resp.Body != nil {
		var err error
		body, err = io.ReadAll(resp.Body)
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("store: capture body: %w", err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return &Snapshot{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

// Response materializes the snapshot as an *http.Response attributed to req.
// Each call returns an independent body reader.
func (s *Snapshot) Response(req *http.Request) *http.Response {
	header := s.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode:    s.Status,
		Status:        fmt.Sprintf("%d %s", s.Status, http.StatusText(s.Status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(s.Body)),
		ContentLength: int64(len(s.Body)),
		Request:       req,
	}
}

// EncodeSnapshot serializes s to its wire form.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("store: encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses the wire form produced by EncodeSnapshot.
func DecodeSnapshot(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return &s, nil
}
