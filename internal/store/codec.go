package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/napolitain/seldon-idle/internal/models"
)

var ErrChecksumMismatch = errors.New("save payload checksum mismatch")

// Encode serializes a state as lz4-compressed JSON and returns the blake3 checksum of the blob
func Encode(state *models.GameState) (payload []byte, checksum string, err error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal game state: %w", err)
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, "", fmt.Errorf("failed to compress game state: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to compress game state: %w", err)
	}

	payload = buf.Bytes()
	return payload, Checksum(payload), nil
}

// Decode verifies the checksum, then decompresses and unmarshals a payload
func Decode(payload []byte, checksum string) (*models.GameState, error) {
	if Checksum(payload) != checksum {
		return nil, ErrChecksumMismatch
	}

	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress game state: %w", err)
	}

	var state models.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}
	return &state, nil
}

// Checksum returns the hex blake3-256 digest of data
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
