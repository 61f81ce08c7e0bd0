package streams

import (
	"github.com/klauspost/compress/zstd"
)

// Compressor shrinks a payload ahead of encryption.  Ciphertext does not
// compress, so any compression must happen on the plaintext side of the
// encrypt adapters.
type Compressor interface {
	CompressData(inputData []byte) (newData []byte, isCompressed bool, err error)
}

type PipeCompressor struct {
	compressor *zstd.Encoder
}

func NewCompressor() (Compressor, error) {
	var err error
	pipecomp := &PipeCompressor{}
	pipecomp.compressor, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return pipecomp, nil
}

func (pc *PipeCompressor) CompressData(inputData []byte) (newData []byte, isCompressed bool, err error) {
	newData = pc.compressor.EncodeAll(inputData, nil)
	if len(newData) >= len(inputData) {
		return inputData, false, nil
	}

	return newData, true, nil
}
