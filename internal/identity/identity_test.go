package identity

import (
	"crypto/sha256"
	"testing"

	"github.com/mr-tron/base58"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"abc123"`, "abc123"},
		{`abc123`, "abc123"},
		{`'abc123'`, "abc123"},
		{` "abc123" `, "abc123"},
		{`""`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{`"HVayYsS6t8"`, "HVayYsS6t8", `""quoted""`, "  spaced  "}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

// buildAddress constructs a syntactically valid address for a version byte.
func buildAddress(t *testing.T, version byte) string {
	t.Helper()
	payload := make([]byte, 21)
	payload[0] = version
	for i := 1; i < 21; i++ {
		payload[i] = byte(i)
	}
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return base58.Encode(append(payload, second[:4]...))
}

func TestValidateAddress(t *testing.T) {
	valid := buildAddress(t, 0x28)
	if err := ValidateAddress(valid); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}

	if err := ValidateAddress("not-base58-0OIl"); err == nil {
		t.Fatalf("expected error for invalid base58")
	}

	if err := ValidateAddress(base58.Encode([]byte{1, 2, 3})); err == nil {
		t.Fatalf("expected error for short address")
	}

	if err := ValidateAddress(buildAddress(t, 0x01)); err == nil {
		t.Fatalf("expected error for unknown version byte")
	}

	// Corrupt the checksum.
	raw, err := base58.Decode(valid)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if err := ValidateAddress(base58.Encode(raw)); err == nil {
		t.Fatalf("expected checksum mismatch")
	}
}
