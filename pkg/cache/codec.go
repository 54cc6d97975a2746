package cache

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Entries are zstd-compressed before they hit a backend. Reports repeat the
// same keys for every brick and shrink by an order of magnitude.

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

func compress(data []byte) []byte {
	encoderOnce.Do(func() {
		// NewWriter with a nil writer only fails on invalid options.
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/4))
}

func decompress(data []byte) ([]byte, error) {
	decoderOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil)
	})
	return decoder.DecodeAll(data, nil)
}
