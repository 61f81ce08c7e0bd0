package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/thoughtrealm/cipherpipe/cipher"
	"github.com/thoughtrealm/cipherpipe/nbio"
)

// The blocking wrappers below put a plain io face on the poll adapters for
// callers that live entirely in blocking code: files, pipes, buffers, net
// connections.  They drive the adapters over the nbio blocking shims, which
// never report not-ready, so the wrappers never spin.  If not-ready somehow
// surfaces anyway, the underlying value broke the blocking contract and the
// wrappers surface that as a hard error rather than retrying.

// NewWriter returns an io.WriteCloser that encrypts everything written to it
// into w.  Close finalizes the cipher, drains the final block, and closes w
// when w is an io.Closer.  Close must be called, or the stream is left
// without its terminal padded block.
func NewWriter(w io.Writer, alg cipher.Algorithm, key, iv []byte) (io.WriteCloser, error) {
	ew, err := NewEncryptWriterKeyed(nbio.WriterFrom(w), alg, key, iv)
	if err != nil {
		return nil, err
	}

	return &blockingWriter{ew: ew}, nil
}

type blockingWriter struct {
	ew *EncryptWriter
}

func (bw *blockingWriter) Write(p []byte) (int, error) {
	n, err := bw.ew.PollWrite(p)
	if errors.Is(err, nbio.ErrNotReady) {
		return n, fmt.Errorf("blocking writer reported not ready: %w", err)
	}
	return n, err
}

func (bw *blockingWriter) Flush() error {
	err := bw.ew.PollFlush()
	if errors.Is(err, nbio.ErrNotReady) {
		return fmt.Errorf("blocking writer reported not ready: %w", err)
	}
	return err
}

func (bw *blockingWriter) Close() error {
	err := bw.ew.PollShutdown()
	if errors.Is(err, nbio.ErrNotReady) {
		return fmt.Errorf("blocking writer reported not ready: %w", err)
	}
	return err
}

// NewReader returns an io.Reader that decrypts everything read from r.  The
// final read sequence strips the cipher's padding and ends with io.EOF.
func NewReader(r io.Reader, alg cipher.Algorithm, key, iv []byte) (io.Reader, error) {
	dr, err := NewDecryptReaderKeyed(nbio.ReaderFrom(r), alg, key, iv)
	if err != nil {
		return nil, err
	}

	return &blockingReader{dr: dr}, nil
}

type blockingReader struct {
	dr *DecryptReader
}

func (br *blockingReader) Read(p []byte) (int, error) {
	n, err := br.dr.PollRead(p)
	if errors.Is(err, nbio.ErrNotReady) {
		return n, fmt.Errorf("blocking reader reported not ready: %w", err)
	}
	return n, err
}
