package game

import "github.com/btcsuite/btcutil/base58"

const addressByteLen = 32

// ValidateAddress checks that the string is a base58-encoded 32-byte
// ledger address.
func ValidateAddress(address string) error {
	if address == "" {
		return ErrInvalidAddress
	}
	raw := base58.Decode(address)
	if len(raw) != addressByteLen {
		return ErrInvalidAddress
	}
	return nil
}

// DecodeAddress returns the 32 raw bytes of a base58 address.
func DecodeAddress(address string) ([]byte, error) {
	raw := base58.Decode(address)
	if len(raw) != addressByteLen {
		return nil, ErrInvalidAddress
	}
	return raw, nil
}

// EncodeAddress renders 32 raw bytes as a base58 address.
func EncodeAddress(raw []byte) (string, error) {
	if len(raw) != addressByteLen {
		return "", ErrInvalidAddress
	}
	return base58.Encode(raw), nil
}
