package streams

import (
	"errors"
	"fmt"

	"github.com/thoughtrealm/cipherpipe/cipher"
	"github.com/thoughtrealm/cipherpipe/logger"
	"github.com/thoughtrealm/cipherpipe/nbio"
)

type writerState int

const (
	writerStateReady writerState = iota
	writerStateFinalized
	writerStateClosed
	writerStateFailed
)

func writerStateToText(state writerState) string {
	switch state {
	case writerStateReady:
		return "READY"
	case writerStateFinalized:
		return "FINALIZED"
	case writerStateClosed:
		return "CLOSED"
	case writerStateFailed:
		return "FAILED"
	default:
		return "ERROR: UNKNOWN STATE"
	}
}

// EncryptWriter wraps a non-blocking sink and encrypts everything written
// through it.  Plaintext handed to PollWrite runs through the crypter's
// update step, and the resulting ciphertext is drained into the sink across
// however many poll calls the sink needs.  PollShutdown finalizes the cipher
// exactly once, drains the final block, then shuts the sink down.
//
// All suspend/resume bookkeeping lives on the struct, so a call that returned
// nbio.ErrNotReady resumes exactly where it left off when reissued.  A single
// EncryptWriter supports one in-flight operation at a time and holds no
// internal locking.
type EncryptWriter struct {
	state   writerState
	dst     nbio.Writer
	crypter cipher.Crypter
	out     []byte
	written int
	err     error
}

// NewEncryptWriter wraps dst with an adapter driving the supplied crypter.
// The crypter must be in the encrypt direction; the adapter takes exclusive
// ownership of both.
func NewEncryptWriter(dst nbio.Writer, crypter cipher.Crypter) (*EncryptWriter, error) {
	if dst == nil {
		return nil, errors.New("no destination writer provided")
	}

	if crypter == nil {
		return nil, errors.New("no crypter provided")
	}

	return &EncryptWriter{
		state:   writerStateReady, // set explicitly in case we change the constants in the future
		dst:     dst,
		crypter: crypter,
	}, nil
}

// NewEncryptWriterKeyed builds the crypter and the adapter in one step.
func NewEncryptWriterKeyed(dst nbio.Writer, alg cipher.Algorithm, key, iv []byte) (*EncryptWriter, error) {
	crypter, err := cipher.NewCrypter(alg, cipher.ModeEncrypt, key, iv)
	if err != nil {
		return nil, fmt.Errorf("failed creating crypter: %w", err)
	}

	return NewEncryptWriter(dst, crypter)
}

// PollWrite encrypts p and buffers the ciphertext for draining.  Ciphertext
// still buffered from an earlier call is drained first; if the sink is not
// ready for that, PollWrite returns 0, nbio.ErrNotReady without having
// consumed any of p.  Once the buffer is clear, the whole of p is run through
// the cipher in one update, so the return count is always 0 or len(p).
func (ew *EncryptWriter) PollWrite(p []byte) (int, error) {
	if err := ew.checkWritable(); err != nil {
		return 0, err
	}

	if err := ew.drainOutput(); err != nil {
		return 0, err
	}

	ciphertext, err := ew.crypter.Update(p)
	if err != nil {
		return 0, ew.fail(fmt.Errorf("cipher update failed: %w", err))
	}

	ew.out = ciphertext
	ew.written = 0
	return len(p), nil
}

// PollFlush drains buffered ciphertext, then forwards the flush to the sink.
func (ew *EncryptWriter) PollFlush() error {
	if err := ew.checkWritable(); err != nil {
		return err
	}

	if err := ew.drainOutput(); err != nil {
		return err
	}

	err := ew.dst.PollFlush()
	if err != nil && !errors.Is(err, nbio.ErrNotReady) {
		return ew.fail(err)
	}
	return err
}

// PollShutdown finalizes the cipher, drains everything, and shuts the sink
// down.  The finalize step runs exactly once no matter how many times
// shutdown is invoked or suspended; resumed calls pick up at the drain.
func (ew *EncryptWriter) PollShutdown() error {
	switch ew.state {
	case writerStateFailed:
		return ew.err
	case writerStateClosed:
		return nil
	}

	if ew.state == writerStateReady {
		finalBlock, err := ew.crypter.Finalize()
		if err != nil {
			return ew.fail(fmt.Errorf("cipher finalize failed: %w", err))
		}

		ew.out = append(ew.out, finalBlock...)
		ew.state = writerStateFinalized
		logger.Debugf("encrypt writer finalized, %d ciphertext bytes to drain", len(ew.out)-ew.written)
	}

	if err := ew.drainOutput(); err != nil {
		return err
	}

	err := ew.dst.PollShutdown()
	if err != nil {
		if errors.Is(err, nbio.ErrNotReady) {
			return err
		}
		return ew.fail(err)
	}

	ew.state = writerStateClosed
	return nil
}

// drainOutput pushes out[written:] into the sink, tolerating partial writes.
// This is the single place that reconciles the cipher's all-or-nothing update
// output with the sink's willingness to accept only part of a buffer.  On a
// not-ready sink the cursor is preserved exactly, so the resumed call neither
// loses nor repeats bytes.
func (ew *EncryptWriter) drainOutput() error {
	for ew.written < len(ew.out) {
		n, err := ew.dst.PollWrite(ew.out[ew.written:])
		if err != nil {
			if errors.Is(err, nbio.ErrNotReady) {
				return nbio.ErrNotReady
			}
			return ew.fail(err)
		}

		ew.written += n
	}

	ew.written = 0
	ew.out = ew.out[:0]
	return nil
}

func (ew *EncryptWriter) checkWritable() error {
	switch ew.state {
	case writerStateReady:
		return nil
	case writerStateFailed:
		return ew.err
	default:
		return fmt.Errorf(
			"invalid encrypt writer state: %s.  Expected READY",
			writerStateToText(ew.state),
		)
	}
}

// fail records the terminal error and returns it.  Underlying sink errors are
// stored unchanged so callers can still match them with errors.Is.
func (ew *EncryptWriter) fail(err error) error {
	logger.Debugf("encrypt writer failed in state %s: %v", writerStateToText(ew.state), err)
	ew.state = writerStateFailed
	ew.err = err
	return err
}
