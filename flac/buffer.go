package flac

import (
	"errors"
	"io"

	"github.com/drgolem/ringbuffer"
)

// byteSource is the uniform "parse against currently available bytes"
// facility described in spec §4.2: a producer hands back a window of at
// least the requested size, or reports how far it got before running out.
// Two producers implement it — a fixed byte slice, and a buffered
// io.Reader — so the metadata and frame parsers are written once against a
// plain []byte and never see the producer behind it.
type byteSource interface {
	// window returns the currently available bytes, attempting to grow
	// that window to at least min bytes. If fewer than min bytes will ever
	// be available, it returns the short window alongside io.EOF (nothing
	// buffered) or io.ErrUnexpectedEOF (some bytes buffered, but not
	// enough, and the source is exhausted).
	window(min int) ([]byte, error)
	// advance drops the first n bytes of the most recently returned
	// window; the parser that consumed them has committed to that much
	// progress.
	advance(n int)
}

// sliceSource wraps a fixed byte slice. Running out of bytes is always
// terminal: there is nowhere else to pull more data from.
type sliceSource struct {
	buf []byte
	off int
}

func newSliceSource(buf []byte) *sliceSource {
	return &sliceSource{buf: buf}
}

func (s *sliceSource) window(min int) ([]byte, error) {
	avail := s.buf[s.off:]
	switch {
	case len(avail) >= min:
		return avail, nil
	case len(avail) == 0:
		return avail, io.EOF
	default:
		return avail, io.ErrUnexpectedEOF
	}
}

func (s *sliceSource) advance(n int) {
	s.off += n
}

// readerSource wraps an incremental io.Reader. Undecoded input bytes are
// queued in a github.com/drgolem/ringbuffer.RingBuffer — the teacher's own
// streaming dependency, repurposed here from ferrying decoded PCM bytes
// between a cgo callback and a Go reader to ferrying raw stream bytes
// between the io.Reader and the bitstream parser — and then drained into a
// contiguous staging slice that parse functions can index into directly.
type readerSource struct {
	r     io.Reader
	rb    *ringbuffer.RingBuffer
	rbCap int
	buf   []byte
	off   int
	eof   bool
}

const readerSourceInitialCap = 8192

func newReaderSource(r io.Reader) *readerSource {
	return &readerSource{
		r:     r,
		rb:    ringbuffer.New(readerSourceInitialCap),
		rbCap: readerSourceInitialCap,
	}
}

// compact discards the consumed prefix of buf, keeping future growth cheap.
func (s *readerSource) compact() {
	if s.off == 0 {
		return
	}
	s.buf = append(s.buf[:0], s.buf[s.off:]...)
	s.off = 0
}

// drainRingBuffer moves everything currently queued in the ring buffer into
// the contiguous staging slice.
func (s *readerSource) drainRingBuffer() {
	n := s.rb.AvailableRead()
	if n <= 0 {
		return
	}
	start := len(s.buf)
	s.buf = append(s.buf, make([]byte, n)...)
	s.rb.Read(s.buf[start:])
}

// growRingBuffer swaps in a larger ring buffer, preserving any bytes that
// were queued but not yet drained.
func (s *readerSource) growRingBuffer(newCap int) {
	pending := make([]byte, s.rb.AvailableRead())
	s.rb.Read(pending)
	grown := ringbuffer.New(newCap)
	grown.Write(pending)
	s.rb = grown
	s.rbCap = newCap
}

// pullFromReader reads one chunk from the underlying reader into the ring
// buffer, growing it and retrying the write if the chunk does not fit.
func (s *readerSource) pullFromReader() error {
	if s.eof {
		return io.EOF
	}
	chunk := make([]byte, 4096)
	n, err := s.r.Read(chunk)
	if n > 0 {
		for {
			written, werr := s.rb.Write(chunk[:n])
			if werr == nil && written == n {
				break
			}
			s.growRingBuffer(s.rbCap * 2)
		}
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.eof = true
		}
		return err
	}
	return nil
}

func (s *readerSource) window(min int) ([]byte, error) {
	s.compact()
	s.drainRingBuffer()
	for len(s.buf) < min && !s.eof {
		if s.rbCap < min {
			s.growRingBuffer(min * 2)
		}
		if err := s.pullFromReader(); err != nil && !errors.Is(err, io.EOF) {
			return s.buf, err
		}
		s.drainRingBuffer()
	}
	switch {
	case len(s.buf) >= min:
		return s.buf, nil
	case len(s.buf) == 0:
		return s.buf, io.EOF
	default:
		return s.buf, io.ErrUnexpectedEOF
	}
}

func (s *readerSource) advance(n int) {
	s.off += n
}

// parseFunc is one parse attempt against a byteSource window; its result is
// the {Done, Incomplete, Error} outcome (spec §4.2).
type parseFunc[T any] func(buf []byte) (value T, consumed int, err error)

// parseUnit drives a parse function against a byteSource, growing the
// window and retrying on Incomplete until the unit parses, the source is
// exhausted, or a real parse error occurs. Frames and metadata blocks are
// both "units" in this sense: each retry re-parses the whole unit from its
// first byte, so no partial parser state ever needs to be resumed (spec
// §4.2, §9).
func parseUnit[T any](src byteSource, initialGuess int, parse parseFunc[T]) (T, error) {
	var zero T
	guess := initialGuess
	if guess < 1 {
		guess = 1
	}
	for {
		buf, werr := src.window(guess)
		value, consumed, perr := parse(buf)
		if perr == nil {
			src.advance(consumed)
			return value, nil
		}
		var sbe *shortBufferError
		if errors.As(perr, &sbe) {
			if werr != nil {
				// The source has nothing further to offer, yet the parser
				// still needs more: end-of-input inside a unit is an error.
				if errors.Is(werr, io.EOF) {
					return zero, io.EOF
				}
				return zero, io.ErrUnexpectedEOF
			}
			guess = len(buf) + sbe.need
			continue
		}
		return zero, perr
	}
}
