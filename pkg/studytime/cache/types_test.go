package cache

import "testing"

func TestCachedEntryEncodeDecode(t *testing.T) {
	in := CachedEntry{Size: 10, Mtime: 1700000000, Value: 12.5}

	data, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var out CachedEntry
	if err := out.Decode(data); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestMakeKeyParseKey(t *testing.T) {
	key := MakeKey(MetricDuration, "/videos/lecture 1.mp4")

	metric, path := ParseKey(key)
	if metric != MetricDuration {
		t.Errorf("metric = %q, want %q", metric, MetricDuration)
	}
	if path != "/videos/lecture 1.mp4" {
		t.Errorf("path = %q", path)
	}
	if string(key[:3]) != "v1:" {
		t.Errorf("key %q missing version prefix", key)
	}
}
