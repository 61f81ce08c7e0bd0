package streams

import (
	"errors"
	"fmt"
	"io"

	"github.com/thoughtrealm/cipherpipe/cipher"
	"github.com/thoughtrealm/cipherpipe/logger"
	"github.com/thoughtrealm/cipherpipe/nbio"
)

type readerState int

const (
	readerStateReady readerState = iota
	readerStateFinalized
	readerStateFailed
)

func readerStateToText(state readerState) string {
	switch state {
	case readerStateReady:
		return "READY"
	case readerStateFinalized:
		return "FINALIZED"
	case readerStateFailed:
		return "FAILED"
	default:
		return "ERROR: UNKNOWN STATE"
	}
}

// DecryptReader wraps a non-blocking source and decrypts everything read
// through it.  Plaintext already produced by the cipher is served from an
// internal buffer without touching the source; once that buffer is exhausted,
// the reader refills by pulling ciphertext from the source and running it
// through the crypter's update step.  End of input on the source triggers the
// terminal finalize step, which strips the cipher's padding.
//
// The reader carries an explicit FINALIZED state rather than trusting the
// source to keep reporting end of input.  A source that yields data again
// after a transient end-of-input is never fed back to the cipher: once
// finalized, reads drain the remaining plaintext and then return io.EOF.
type DecryptReader struct {
	state   readerState
	src     nbio.Reader
	crypter cipher.Crypter
	buf     []byte
	read    int
	err     error
}

// NewDecryptReader wraps src with an adapter driving the supplied crypter.
// The crypter must be in the decrypt direction; the adapter takes exclusive
// ownership of both.
func NewDecryptReader(src nbio.Reader, crypter cipher.Crypter) (*DecryptReader, error) {
	if src == nil {
		return nil, errors.New("no source reader provided")
	}

	if crypter == nil {
		return nil, errors.New("no crypter provided")
	}

	return &DecryptReader{
		state:   readerStateReady, // set explicitly in case we change the constants in the future
		src:     src,
		crypter: crypter,
	}, nil
}

// NewDecryptReaderKeyed builds the crypter and the adapter in one step.
func NewDecryptReaderKeyed(src nbio.Reader, alg cipher.Algorithm, key, iv []byte) (*DecryptReader, error) {
	crypter, err := cipher.NewCrypter(alg, cipher.ModeDecrypt, key, iv)
	if err != nil {
		return nil, fmt.Errorf("failed creating crypter: %w", err)
	}

	return NewDecryptReader(src, crypter)
}

// PollRead copies decrypted bytes into p.  It returns nbio.ErrNotReady when a
// refill finds the source not ready; the resumed call continues from the same
// point.  After the final plaintext is drained, PollRead returns 0, io.EOF.
//
// p doubles as the refill scratch buffer for ciphertext pulled from the
// source, so a single refill never buffers more than len(p) plus one block of
// plaintext.
func (dr *DecryptReader) PollRead(p []byte) (int, error) {
	if dr.state == readerStateFailed {
		return 0, dr.err
	}

	if len(p) == 0 {
		return 0, nil
	}

	// A refill may legitimately produce nothing: a block cipher's update
	// withholds data until a block boundary passes.  Keep refilling until
	// there is plaintext to serve, the source suspends, or the stream ends.
	for dr.read == len(dr.buf) {
		if dr.state == readerStateFinalized {
			return 0, io.EOF
		}

		if err := dr.refill(p); err != nil {
			return 0, err
		}
	}

	n := copy(p, dr.buf[dr.read:])
	dr.read += n
	return n, nil
}

// refill pulls one read's worth of ciphertext from the source and replaces
// the plaintext buffer with the cipher's output.  End of input runs the
// finalize step instead and moves the reader to FINALIZED, after which the
// source is never polled again.
func (dr *DecryptReader) refill(scratch []byte) error {
	dr.read = 0
	dr.buf = dr.buf[:0]

	n, err := dr.src.PollRead(scratch)
	if err != nil {
		if errors.Is(err, nbio.ErrNotReady) {
			return nbio.ErrNotReady
		}

		if err == io.EOF {
			final, finalErr := dr.crypter.Finalize()
			if finalErr != nil {
				return dr.fail(fmt.Errorf("cipher finalize failed: %w", finalErr))
			}

			dr.buf = final
			dr.state = readerStateFinalized
			logger.Debugf("decrypt reader finalized, %d plaintext bytes remain", len(dr.buf))
			return nil
		}

		return dr.fail(err)
	}

	plaintext, updateErr := dr.crypter.Update(scratch[:n])
	if updateErr != nil {
		return dr.fail(fmt.Errorf("cipher update failed: %w", updateErr))
	}

	dr.buf = plaintext
	return nil
}

// fail records the terminal error and returns it.  Underlying source errors
// are stored unchanged so callers can still match them with errors.Is.
func (dr *DecryptReader) fail(err error) error {
	logger.Debugf("decrypt reader failed in state %s: %v", readerStateToText(dr.state), err)
	dr.state = readerStateFailed
	dr.err = err
	return err
}
