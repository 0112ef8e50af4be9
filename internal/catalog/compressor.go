package catalog

import (
	"bytes"
	"fmt"
	"lecturebot/internal/catalog/interfaces"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame header of every zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

func isCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// encodeBlob compresses data when enabled.
func encodeBlob(compressor interfaces.CompressorInterface, compress bool, data []byte) ([]byte, error) {
	if !compress {
		return data, nil
	}
	return compressor.Compress(data)
}

// decodeBlob accepts both compressed and plain JSON blobs, so toggling
// compression never strands an existing catalog.
func decodeBlob(compressor interfaces.CompressorInterface, data []byte) ([]byte, error) {
	if !isCompressed(data) {
		return data, nil
	}
	return compressor.Decompress(data)
}
