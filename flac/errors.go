package flac

import "errors"

// Sentinel errors returned by the decoder. Use errors.Is to test for a
// specific failure kind; wrapped errors carry additional context via %w.
var (
	ErrBadSignature        = errors.New("flac: missing 'fLaC' stream marker")
	ErrBadMetadataHeader   = errors.New("flac: malformed metadata block header")
	ErrBadStreamInfo       = errors.New("flac: malformed STREAMINFO block")
	ErrBadPadding          = errors.New("flac: non-zero byte in PADDING block")
	ErrBadApplication      = errors.New("flac: malformed APPLICATION block")
	ErrBadSeekTable        = errors.New("flac: malformed SEEKTABLE block")
	ErrBadVorbisComment    = errors.New("flac: malformed VORBIS_COMMENT block")
	ErrBadCueSheet         = errors.New("flac: malformed CUESHEET block")
	ErrBadPicture          = errors.New("flac: malformed PICTURE block")
	ErrMissingStreamInfo   = errors.New("flac: first metadata block is not STREAMINFO")

	ErrBadSyncCode          = errors.New("flac: invalid frame sync code")
	ErrBadBlockSize         = errors.New("flac: invalid block size code")
	ErrBadSampleRate        = errors.New("flac: invalid sample rate code")
	ErrBadChannelAssignment = errors.New("flac: reserved channel assignment")
	ErrBadSampleSize        = errors.New("flac: reserved sample size code")
	ErrBadUTF8Coding        = errors.New("flac: malformed UTF-8 coded number")
	ErrHeaderCRCMismatch    = errors.New("flac: frame header CRC-8 mismatch")
	ErrFrameCRCMismatch     = errors.New("flac: frame footer CRC-16 mismatch")
	ErrBadSubframeHeader    = errors.New("flac: invalid subframe header")
	ErrBadLPCPrecision      = errors.New("flac: reserved LPC coefficient precision")
	ErrBadResidualCoding    = errors.New("flac: reserved residual coding method")

	ErrNotFound = errors.New("flac: metadata block not found")

	// errShortBuffer is the internal Incomplete signal: the parser ran out
	// of bytes before it could finish the unit it was parsing. It never
	// escapes the package; callers see io.EOF, io.ErrUnexpectedEOF, or one
	// of the sentinels above.
	errShortBuffer = errors.New("flac: short buffer")
)

// shortBufferError records how many additional bytes a parse needs to make
// progress. It implements error and unwraps to errShortBuffer so callers can
// still match with errors.Is(err, errShortBuffer).
type shortBufferError struct {
	need int
}

func (e *shortBufferError) Error() string { return "flac: short buffer" }
func (e *shortBufferError) Unwrap() error { return errShortBuffer }

func needBytes(n int) error {
	return &shortBufferError{need: n}
}
