package encoding

import "testing"

func TestRLE_RoundTrip(t *testing.T) {
	in := make([]uint8, 0, 200)
	in = append(in, 1, 1, 1, 2, 2, 3)
	for i := 0; i < 150; i++ {
		in = append(in, 0)
	}
	in = append(in, 4)

	out, err := DecodeRLE(EncodeRLE(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func TestRLE_Empty(t *testing.T) {
	out, err := DecodeRLE(EncodeRLE(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty, got %d ids", len(out))
	}
}

func TestRLE_RejectsGarbage(t *testing.T) {
	if _, err := DecodeRLE("not base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
