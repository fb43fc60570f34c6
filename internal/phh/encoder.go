package phh

import (
	"bytes"
	"errors"
	"io"

	"github.com/BurntSushi/toml"
)

// Encode writes one hand in .phh TOML form.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: nil hand history")
	}
	return toml.NewEncoder(w).Encode(hand)
}

// EncodeToBytes renders one hand to bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
