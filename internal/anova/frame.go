package anova

import "bytes"

// terminator marks the end of every command and response frame.
const terminator = '\r'

// reassembler converts arbitrarily-chunked notification bytes into discrete
// response frames. The cooker sends ASCII text and may split one response
// across several notifications, so bytes are accumulated until a terminator
// appears. Bytes after a terminator are retained as the start of the next
// frame rather than dropped.
type reassembler struct {
	buf []byte
}

// feed appends a notification chunk and returns any frames completed by it,
// in arrival order, without their terminators.
func (r *reassembler) feed(chunk []byte) []string {
	r.buf = append(r.buf, chunk...)

	var frames []string
	for {
		i := bytes.IndexByte(r.buf, terminator)
		if i < 0 {
			return frames
		}
		frames = append(frames, string(r.buf[:i]))
		r.buf = r.buf[i+1:]
	}
}

// reset discards any partial frame. Called when a new command begins so a
// stale fragment can't prefix the next response.
func (r *reassembler) reset() {
	r.buf = r.buf[:0]
}

// pending returns the number of buffered bytes awaiting a terminator.
func (r *reassembler) pending() int {
	return len(r.buf)
}
