package cobs

import (
	"bytes"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := [][]byte{
		{0x2A},
		{1, 2, 3, 4, 5},
		bytes.Repeat([]byte{0x00}, 254),
		bytes.Repeat([]byte{0xFF}, 254),
	}
	for _, p := range cases {
		enc, err := Encode(p, 0x00)
		if err != nil {
			t.Fatalf("Encode(%v): %v", p, err)
		}
		dec, err := Decode(append([]byte(nil), enc...), 0x00)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(dec, p) {
			t.Fatalf("round trip mismatch: got %v want %v", dec, p)
		}
	}
}

func TestEncode_DelimiterElision(t *testing.T) {
	// payload [1,2,3,4,5] with delimiter 0x00: no zero bytes, so the code
	// byte just counts to the end.
	enc, err := Encode([]byte{1, 2, 3, 4, 5}, 0x00)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x06, 1, 2, 3, 4, 5, 0x00}
	if !bytes.Equal(enc, want) {
		t.Fatalf("got %v want %v", enc, want)
	}
}

func TestEncode_NoAliasing(t *testing.T) {
	p := []byte{0x00, 0x01, 0x00, 0x00, 0x02}
	enc, err := Encode(p, 0x00)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, b := range enc[:len(enc)-1] {
		if b == 0x00 {
			t.Fatalf("delimiter leaked into non-trailing byte: %v", enc)
		}
	}
	if enc[len(enc)-1] != 0x00 {
		t.Fatalf("trailing byte not delimiter: %v", enc)
	}
}

func TestEncode_Bounds(t *testing.T) {
	if _, err := Encode(nil, 0); err != ErrPayloadEmpty {
		t.Fatalf("got %v want ErrPayloadEmpty", err)
	}
	if _, err := Encode(bytes.Repeat([]byte{1}, 255), 0); err == nil {
		t.Fatalf("expected ErrPayloadTooLarge")
	}
}

func TestDecode_Bounds(t *testing.T) {
	if _, err := Decode([]byte{1, 2}, 0); err == nil {
		t.Fatalf("expected ErrPacketTooSmall")
	}
	if _, err := Decode(make([]byte, 257), 0); err == nil {
		t.Fatalf("expected ErrPacketTooLarge")
	}
}

func TestDecode_DelimiterEarly(t *testing.T) {
	// Overhead byte claims a jump that lands on the delimiter before the end.
	q := []byte{0x01, 0x00, 0xAA, 0x00}
	if _, err := Decode(q, 0x00); err == nil {
		t.Fatalf("expected ErrDelimiterEarly")
	}
}

func TestDecode_DelimiterMissing(t *testing.T) {
	q := []byte{0x05, 0x01, 0x02, 0x03}
	if _, err := Decode(q, 0x00); err == nil {
		t.Fatalf("expected ErrDelimiterMissing")
	}
}

// FuzzCOBSRoundTrip ensures arbitrary small payloads survive encode/decode.
func FuzzCOBSRoundTrip(f *testing.F) {
	f.Add([]byte{0x2A}, byte(0x00))
	f.Add([]byte{1, 2, 3, 4, 5}, byte(0x00))
	f.Fuzz(func(t *testing.T, p []byte, delim byte) {
		if len(p) == 0 || len(p) > MaxPayload {
			t.Skip()
		}
		enc, err := Encode(p, delim)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		dec, err := Decode(enc, delim)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(dec, p) {
			t.Fatalf("round trip mismatch: got %v want %v", dec, p)
		}
	})
}

func FuzzDecodeNoPanic(f *testing.F) {
	f.Add([]byte{0x01, 0x02, 0x00}, byte(0x00))
	f.Fuzz(func(t *testing.T, q []byte, delim byte) {
		_, _ = Decode(append([]byte(nil), q...), delim)
	})
}
