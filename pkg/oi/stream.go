package oi

import "fmt"

const maxPendingBytes = 1024

// StreamParser frames the raw sensor stream into packet bodies.
// A frame is: header (19), body length n, n body bytes, checksum.
// The low byte of the sum over the whole frame is zero.
type StreamParser struct {
	buf     []byte
	dropped int
}

// NewStreamParser creates a parser with an empty buffer.
func NewStreamParser() *StreamParser {
	return &StreamParser{buf: make([]byte, 0, 256)}
}

// Feed appends raw bytes read from the link.
func (p *StreamParser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
	if len(p.buf) > maxPendingBytes {
		p.dropped += len(p.buf) - maxPendingBytes
		p.buf = append(p.buf[:0], p.buf[len(p.buf)-maxPendingBytes:]...)
	}
}

// Next returns the next complete frame body, or nil when none is buffered.
// A frame with a bad checksum is skipped and reported as ErrChecksum.
func (p *StreamParser) Next() ([]byte, error) {
	p.resync()

	if len(p.buf) < 2 {
		return nil, nil
	}
	n := int(p.buf[1])
	total := n + 3
	if len(p.buf) < total {
		return nil, nil
	}

	var sum byte
	for _, b := range p.buf[:total] {
		sum += b
	}
	if sum != 0 {
		p.consume(1)
		return nil, fmt.Errorf("%w: length %d sum %d", ErrChecksum, n, sum)
	}

	body := make([]byte, n)
	copy(body, p.buf[2:2+n])
	p.consume(total)
	return body, nil
}

// Dropped returns how many bytes were discarded while hunting for a header.
func (p *StreamParser) Dropped() int {
	return p.dropped
}

// Reset discards any buffered bytes.
func (p *StreamParser) Reset() {
	p.buf = p.buf[:0]
}

func (p *StreamParser) resync() {
	i := 0
	for i < len(p.buf) && p.buf[i] != streamHeader {
		i++
	}
	if i > 0 {
		p.dropped += i
		p.consume(i)
	}
}

func (p *StreamParser) consume(n int) {
	p.buf = append(p.buf[:0], p.buf[n:]...)
}

// EncodeFrame wraps a packet body in a stream frame.
func EncodeFrame(body []byte) []byte {
	frame := make([]byte, 0, len(body)+3)
	frame = append(frame, streamHeader, byte(len(body)))
	frame = append(frame, body...)

	var sum byte
	for _, b := range frame {
		sum += b
	}
	return append(frame, -sum)
}
