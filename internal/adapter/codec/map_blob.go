// Package codec turns world maps into the compressed blobs both SQL
// backends store.
package codec

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/world"
)

var (
	initOnce sync.Once
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	initErr  error
)

func coders() (*zstd.Encoder, *zstd.Decoder, error) {
	initOnce.Do(func() {
		encoder, initErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if initErr != nil {
			return
		}
		decoder, initErr = zstd.NewReader(nil)
	})
	return encoder, decoder, initErr
}

// EncodeMap returns the zstd-compressed JSON of m in its persisted shape.
func EncodeMap(m *world.WorldMap) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal map: %w", err)
	}
	enc, _, err := coders()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// DecodeMap reverses EncodeMap. Undecodable blobs wrap ports.ErrCorrupt.
func DecodeMap(blob []byte) (*world.WorldMap, error) {
	_, dec, err := coders()
	if err != nil {
		return nil, err
	}
	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: map blob: %v", ports.ErrCorrupt, err)
	}
	var m world.WorldMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: map json: %v", ports.ErrCorrupt, err)
	}
	return &m, nil
}
