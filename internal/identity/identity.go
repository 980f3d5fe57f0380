// Package identity extracts and validates wallet addresses carried in quest
// platform payloads.
package identity

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Hathor base58check address layout: version byte, 20-byte hash, 4-byte
// double-SHA256 checksum.
const addressLength = 25

var addressVersions = map[byte]bool{
	0x28: true, // mainnet P2PKH
	0x64: true, // mainnet P2SH
	0x49: true, // testnet P2PKH
	0x87: true, // testnet P2SH
}

// Normalize strips wrapping quote characters that upstream JSON embedding
// leaves around address strings. Normalizing a clean string is a no-op, so
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), `"'`)
}

// ValidateAddress checks base58check structure of a Hathor address. It does
// not consult the network; claim eligibility stays with the backend.
func ValidateAddress(addr string) error {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("address is not valid base58: %w", err)
	}
	if len(decoded) != addressLength {
		return fmt.Errorf("address has %d bytes, want %d", len(decoded), addressLength)
	}
	if !addressVersions[decoded[0]] {
		return fmt.Errorf("unknown address version 0x%02x", decoded[0])
	}

	payload, checksum := decoded[:21], decoded[21:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	for i := 0; i < 4; i++ {
		if checksum[i] != second[i] {
			return fmt.Errorf("address checksum mismatch")
		}
	}
	return nil
}
