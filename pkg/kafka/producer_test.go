package kafka

import "testing"

func TestEncodeValue(t *testing.T) {
	if v, err := encodeValue([]byte("raw")); err != nil || string(v) != "raw" {
		t.Fatalf("bytes passthrough: got %q, %v", v, err)
	}
	if v, err := encodeValue("text"); err != nil || string(v) != "text" {
		t.Fatalf("string passthrough: got %q, %v", v, err)
	}
	v, err := encodeValue(map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("json encode: %v", err)
	}
	if string(v) != `{"n":1}` {
		t.Fatalf("json encode: got %q", v)
	}
}
