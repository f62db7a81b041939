package bptree

import (
	"errors"
	"strings"
	"testing"
)

func TestDataErrorTruncatesLongPayloads(t *testing.T) {
	data := make([]byte, 1000)
	err := dataErrf(data, 0, nil, "bad record")
	msg := err.Error()
	if strings.Contains(msg, strings.Repeat("00", 500)) {
		t.Fatal("expected long payload to be truncated, not dumped in full")
	}
}

func TestDataErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := dataErrf([]byte("x"), 0, cause, "wrapped")
	if !errors.Is(err, cause) {
		t.Fatal("expected DataError to unwrap to its cause")
	}
}
