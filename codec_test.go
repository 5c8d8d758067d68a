package blaze

import (
	"reflect"
	"testing"
)

func TestEncodeVarbyte_Zero(t *testing.T) {
	got := EncodeVarbyte(nil, 0)
	want := []byte{0x00}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeVarbyte(0) = %v, want %v", got, want)
	}
}

func TestEncodeVarbyte_KnownValue(t *testing.T) {
	got := EncodeVarbyte(nil, 130)
	want := []byte{0x82, 0x01}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeVarbyte(130) = %v, want %v", got, want)
	}
}

func TestVarbyte_RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 130, 16384, 1 << 20, 1 << 31, 1 << 40}
	for _, n := range cases {
		encoded := EncodeVarbyte(nil, n)
		got, off, err := DecodeVarbyte(encoded, 0)
		if err != nil {
			t.Fatalf("DecodeVarbyte(%d) returned error: %v", n, err)
		}
		if got != n {
			t.Errorf("round trip %d -> %v -> %d", n, encoded, got)
		}
		if off != len(encoded) {
			t.Errorf("offset after decode = %d, want %d", off, len(encoded))
		}
	}
}

func TestDecodeVarbyte_Truncated(t *testing.T) {
	_, _, err := DecodeVarbyte([]byte{0x82}, 0)
	if err == nil {
		t.Fatal("expected error decoding a truncated varbyte stream")
	}
}

func TestGaps_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		xs   []uint64
	}{
		{"empty", nil},
		{"single", []uint64{5}},
		{"ascending", []uint64{1, 2, 3, 100, 1000}},
		{"large gaps", []uint64{0, 1 << 20, 1 << 21}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeGaps(nil, tt.xs)
			got, _, err := DecodeGaps(encoded, 0, len(tt.xs))
			if err != nil {
				t.Fatalf("DecodeGaps returned error: %v", err)
			}
			if len(got) == 0 && len(tt.xs) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.xs) {
				t.Errorf("gap round trip = %v, want %v", got, tt.xs)
			}
		})
	}
}
