package streams

import (
	"github.com/klauspost/compress/zstd"
)

type Decompressor interface {
	DecompressData(dataIn []byte) (dataOut []byte, err error)
}

type PipeDecompressor struct {
	decompressor *zstd.Decoder
}

func NewDecompressor() Decompressor {
	decomp := &PipeDecompressor{}
	decomp.decompressor, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return decomp
}

func (pd *PipeDecompressor) DecompressData(dataIn []byte) (dataOut []byte, err error) {
	return pd.decompressor.DecodeAll(dataIn, nil)
}
