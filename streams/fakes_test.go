package streams

import (
	"io"

	"github.com/thoughtrealm/cipherpipe/nbio"
)

// testSink is a controllable nbio.Writer.  maxChunk caps how many bytes one
// poll accepts, notReadyEvery makes every Nth poll report not ready, and
// failWith makes every write poll fail.
type testSink struct {
	data          []byte
	maxChunk      int
	notReadyEvery int
	failWith      error
	writePolls    int
	flushCount    int
	shutdownCount int
}

func (ts *testSink) PollWrite(p []byte) (int, error) {
	ts.writePolls++

	if ts.failWith != nil {
		return 0, ts.failWith
	}

	if ts.notReadyEvery > 0 && ts.writePolls%ts.notReadyEvery == 0 {
		return 0, nbio.ErrNotReady
	}

	n := len(p)
	if ts.maxChunk > 0 && n > ts.maxChunk {
		n = ts.maxChunk
	}

	ts.data = append(ts.data, p[:n]...)
	return n, nil
}

func (ts *testSink) PollFlush() error {
	ts.flushCount++
	return nil
}

func (ts *testSink) PollShutdown() error {
	ts.shutdownCount++
	return nil
}

// testSource is a controllable nbio.Reader serving a fixed byte set.
// reviveData simulates a misbehaving source that starts yielding bytes again
// after it already reported end of input.
type testSource struct {
	data          []byte
	pos           int
	maxChunk      int
	notReadyEvery int
	failWith      error
	readPolls     int
	eofReported   bool
	reviveData    []byte
}

func (ts *testSource) PollRead(p []byte) (int, error) {
	ts.readPolls++

	if ts.failWith != nil {
		return 0, ts.failWith
	}

	if ts.notReadyEvery > 0 && ts.readPolls%ts.notReadyEvery == 0 {
		return 0, nbio.ErrNotReady
	}

	if ts.pos == len(ts.data) {
		if !ts.eofReported {
			ts.eofReported = true
			return 0, io.EOF
		}

		if len(ts.reviveData) == 0 {
			return 0, io.EOF
		}

		ts.data = append(ts.data, ts.reviveData...)
		ts.reviveData = nil
	}

	n := len(ts.data) - ts.pos
	if n > len(p) {
		n = len(p)
	}
	if ts.maxChunk > 0 && n > ts.maxChunk {
		n = ts.maxChunk
	}

	copy(p, ts.data[ts.pos:ts.pos+n])
	ts.pos += n
	return n, nil
}
