package flac

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Stream is an opened FLAC stream: parsed metadata plus a lazy frame-by-frame
// sample iterator. Two Streams never share state.
type Stream struct {
	info     StreamInfo
	blocks   []*MetadataBlock
	src      byteSource
	closer   io.Closer
	scratch  [][]int32
	cur      *Frame
	curPos   int // next unread sample index within cur (interleaved: channel varies fastest)
	exhausted bool
}

// Open parses the metadata chain from r and returns a Stream positioned at
// the first frame. Incomplete reads are retried transparently as more of r
// becomes available.
func Open(r io.Reader) (*Stream, error) {
	src := newReaderSource(r)
	return openSource(src, nil)
}

// OpenFile opens path and parses it as a FLAC stream. The returned Stream's
// Close releases the underlying file handle.
func OpenFile(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := openSource(newReaderSource(f), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// ParseBytes parses a complete in-memory FLAC stream. Unlike Open/OpenFile,
// running out of bytes mid-stream is terminal: there is no reader to pull
// more from.
func ParseBytes(b []byte) (*Stream, error) {
	return openSource(newSliceSource(b), nil)
}

func openSource(src byteSource, closer io.Closer) (*Stream, error) {
	if err := readStreamMarker(src); err != nil {
		return nil, err
	}
	si, blocks, err := readMetadataChain(src)
	if err != nil {
		return nil, err
	}
	slog.Debug("flac stream opened",
		"sampleRate", si.SampleRate,
		"channels", si.Channels,
		"bitsPerSample", si.BitsPerSample,
		"totalSamples", si.TotalSamples,
	)
	return &Stream{info: si, blocks: blocks, src: src, closer: closer}, nil
}

// Info returns the stream's STREAMINFO.
func (s *Stream) Info() StreamInfo { return s.info }

// Metadata returns every non-STREAMINFO metadata block, in declaration
// order.
func (s *Stream) Metadata() []*MetadataBlock { return s.blocks }

// SampleCountHint returns the STREAMINFO total-sample count and whether it
// is known (a value of 0 in the bitstream means "unknown", per spec §4.3).
func (s *Stream) SampleCountHint() (int64, bool) {
	if s.info.TotalSamples == 0 {
		return 0, false
	}
	return int64(s.info.TotalSamples), true
}

// Close releases the underlying file handle, if Stream was opened via
// OpenFile. It is a no-op otherwise and never returns a non-nil error.
func (s *Stream) Close() error {
	if s.closer != nil {
		s.closer.Close()
	}
	return nil
}

// initialFrameGuess is the window size used on the first attempt to parse a
// frame; it is cheap to grow on Incomplete, so this only needs to be a
// plausible lower bound rather than an exact size.
const initialFrameGuess = 4096

// Next fills dst with up to len(dst) interleaved PCM samples, channel-major
// within each frame's sample position (spec §5), pulling additional frames
// from the underlying source as needed. Following the same convention as
// io.Reader, the last partial fill is returned with a nil error (n > 0, err
// == nil); the following call then returns (0, io.EOF).
func (s *Stream) Next(dst []int32) (int, error) {
	n := 0
	for n < len(dst) {
		if s.cur == nil || s.curPos >= s.cur.BlockSize()*len(s.cur.Samples) {
			if s.exhausted {
				if n > 0 {
					return n, nil
				}
				return 0, io.EOF
			}
			frame, err := parseUnit(s.src, initialFrameGuess, func(buf []byte) (*Frame, int, error) {
				return parseFrame(buf, s.info, s.scratch)
			})
			if err != nil {
				if err == io.EOF {
					s.exhausted = true
					if n > 0 {
						return n, nil
					}
					return 0, io.EOF
				}
				return n, err
			}
			s.cur = frame
			s.scratch = frame.Samples
			s.curPos = 0
		}
		blockSize := len(s.cur.Samples[0])
		channels := len(s.cur.Samples)
		for n < len(dst) && s.curPos < blockSize*channels {
			ch := s.curPos % channels
			idx := s.curPos / channels
			dst[n] = s.cur.Samples[ch][idx]
			n++
			s.curPos++
		}
	}
	return n, nil
}

// BlockSize returns the number of samples per channel in the frame.
func (f *Frame) BlockSize() int {
	if len(f.Samples) == 0 {
		return 0
	}
	return len(f.Samples[0])
}

func fetchOpenFile(path string) (*Stream, error) {
	s, err := OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("flac: %s: %w", path, err)
	}
	return s, nil
}

// FetchStreamInfo opens path and returns its STREAMINFO.
func FetchStreamInfo(path string) (StreamInfo, error) {
	s, err := fetchOpenFile(path)
	if err != nil {
		return StreamInfo{}, err
	}
	defer s.Close()
	return s.Info(), nil
}

// FetchVorbisComment opens path and returns its VORBIS_COMMENT block, or an
// ErrNotFound-wrapped error if the stream has none.
func FetchVorbisComment(path string) (*VorbisComment, error) {
	s, err := fetchOpenFile(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	for _, b := range s.Metadata() {
		if b.VorbisComment != nil {
			return b.VorbisComment, nil
		}
	}
	return nil, fmt.Errorf("%s: VORBIS_COMMENT: %w", path, ErrNotFound)
}

// FetchCueSheet opens path and returns its CUESHEET block, or an
// ErrNotFound-wrapped error if the stream has none.
func FetchCueSheet(path string) (*CueSheet, error) {
	s, err := fetchOpenFile(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	for _, b := range s.Metadata() {
		if b.CueSheet != nil {
			return b.CueSheet, nil
		}
	}
	return nil, fmt.Errorf("%s: CUESHEET: %w", path, ErrNotFound)
}

// FetchPicture opens path and returns the best picture matching c, or an
// ErrNotFound-wrapped error if no picture matches.
func FetchPicture(path string, c PictureConstraint) (*Picture, error) {
	s, err := fetchOpenFile(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	p, ok := SelectPicture(s.Metadata(), c)
	if !ok {
		return nil, fmt.Errorf("%s: PICTURE: %w", path, ErrNotFound)
	}
	return p, nil
}
