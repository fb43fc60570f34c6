package phh

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Decode parses one .phh TOML document.
func Decode(data []byte) (*HandHistory, error) {
	var h HandHistory
	if err := toml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decoding hand history: %w", err)
	}
	return &h, nil
}

// DecodeFile reads and parses one .phh file.
func DecodeFile(path string) (*HandHistory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
