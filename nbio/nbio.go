// Copyright 2024 The Cipherpipe Authors
//
// Use of this source code is governed by an MIT license that is located
// in this project's root folder, and can also be found online at:
//
// https://github.com/thoughtrealm/cipherpipe/LICENSE
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
	Package nbio defines the non-blocking I/O contract the stream adapters
	are built against.  A poll call either makes progress, fails, or returns
	ErrNotReady having made no progress at all.  ErrNotReady is control flow,
	not a failure: the caller retries the same call later, and the callee must
	tolerate that retry without losing or repeating bytes.
*/

package nbio

import (
	"errors"
	"io"
)

// ErrNotReady signals that the underlying resource cannot make progress right
// now and the call should be retried later.  Detect it with errors.Is.
var ErrNotReady = errors.New("resource not ready")

// Writer is a non-blocking byte sink.
type Writer interface {
	// PollWrite writes some prefix of p, returning how many bytes were
	// accepted.  Partial writes are normal.
	PollWrite(p []byte) (int, error)

	// PollFlush pushes any sink-internal buffering down to the resource.
	PollFlush() error

	// PollShutdown ends the sink.  No PollWrite may follow a completed
	// shutdown.
	PollShutdown() error
}

// Reader is a non-blocking byte source.  PollRead returns 0, io.EOF at end of
// input, and keeps returning it on every call after that.
type Reader interface {
	PollRead(p []byte) (int, error)
}

// WriterFrom adapts a blocking io.Writer to the Writer contract.  The result
// never returns ErrNotReady.  PollFlush and PollShutdown forward to Flush and
// Close when the wrapped value provides them, and otherwise complete
// trivially.
func WriterFrom(w io.Writer) Writer {
	return &writerAdapter{w: w}
}

type writerAdapter struct {
	w io.Writer
}

func (wa *writerAdapter) PollWrite(p []byte) (int, error) {
	return wa.w.Write(p)
}

func (wa *writerAdapter) PollFlush() error {
	if f, ok := wa.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (wa *writerAdapter) PollShutdown() error {
	if c, ok := wa.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReaderFrom adapts a blocking io.Reader to the Reader contract.  A read that
// delivers bytes along with an error reports just the bytes; the error is
// surfaced by the following call, which matches how io.Reader consumers are
// expected to sequence (n > 0, err) results.
func ReaderFrom(r io.Reader) Reader {
	return &readerAdapter{r: r}
}

type readerAdapter struct {
	r   io.Reader
	err error
}

func (ra *readerAdapter) PollRead(p []byte) (int, error) {
	if ra.err != nil {
		return 0, ra.err
	}

	n, err := ra.r.Read(p)
	if n > 0 {
		ra.err = err
		return n, nil
	}
	return 0, err
}
