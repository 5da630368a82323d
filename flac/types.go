package flac

// StreamInfo is the mandatory, always-first metadata block. It is
// value-typed and immutable once parsed: every field the rest of the
// decoder needs (sample rate, channel count, bit depth, total samples) to
// fill in frame-header escapes lives here.
type StreamInfo struct {
	MinBlockSize  uint16 // samples
	MaxBlockSize  uint16 // samples
	MinFrameSize  uint32 // bytes, 24-bit
	MaxFrameSize  uint32 // bytes, 24-bit
	SampleRate    uint32 // Hz, 20-bit, 1..655350
	Channels      uint8  // 1..8
	BitsPerSample uint8  // 4..32
	TotalSamples  uint64 // 36-bit, 0 means unknown
	MD5Sum        [16]byte
}

// BlockType identifies a metadata block's body, using the raw 7-bit wire
// code (0..126; 127 is invalid and rejected during parsing).
type BlockType uint8

const (
	BlockTypeStreamInfo    BlockType = 0
	BlockTypePadding       BlockType = 1
	BlockTypeApplication   BlockType = 2
	BlockTypeSeekTable     BlockType = 3
	BlockTypeVorbisComment BlockType = 4
	BlockTypeCueSheet      BlockType = 5
	BlockTypePicture       BlockType = 6
)

func (t BlockType) String() string {
	switch t {
	case BlockTypeStreamInfo:
		return "STREAMINFO"
	case BlockTypePadding:
		return "PADDING"
	case BlockTypeApplication:
		return "APPLICATION"
	case BlockTypeSeekTable:
		return "SEEKTABLE"
	case BlockTypeVorbisComment:
		return "VORBIS_COMMENT"
	case BlockTypeCueSheet:
		return "CUESHEET"
	case BlockTypePicture:
		return "PICTURE"
	default:
		return "UNKNOWN"
	}
}

// MetadataBlock is a tagged union over the typed metadata bodies, modeled
// as a discriminant (Type) plus one populated typed pointer field — the Go
// expression of the spec's "visitor-style interface or enum discriminant
// plus payload union" guidance (§9).
type MetadataBlock struct {
	IsLast bool
	Type   BlockType

	StreamInfo    *StreamInfo
	Padding       *Padding
	Application   *Application
	SeekTable     *SeekTable
	VorbisComment *VorbisComment
	CueSheet      *CueSheet
	Picture       *Picture
	Unknown       *UnknownBlock
}

// Padding is an all-zero metadata block; only its length carries meaning.
type Padding struct {
	Length int
}

// Application is an opaque, application-defined metadata block.
type Application struct {
	ID   [4]byte
	Data []byte
}

// SeekPoint is one entry of a SEEKTABLE block. SampleNumber ==
// PlaceholderSampleNumber marks an unused placeholder point.
type SeekPoint struct {
	SampleNumber uint64
	StreamOffset uint64
	FrameSamples uint16
}

// PlaceholderSampleNumber marks an unused seek point.
const PlaceholderSampleNumber uint64 = 0xFFFFFFFFFFFFFFFF

// SeekTable is an ordered sequence of seek points.
type SeekTable struct {
	Points []SeekPoint
}

// VorbisCommentPair is one NAME=VALUE entry. FLAC permits a NAME to repeat
// (e.g. multiple ARTIST entries), so VorbisComment keeps an ordered slice
// rather than a map that would silently drop all but the last of a
// repeated name.
type VorbisCommentPair struct {
	Name  string
	Value string
}

// VorbisComment holds the vendor string and the ordered comment list.
type VorbisComment struct {
	Vendor   string
	Comments []VorbisCommentPair
}

// Get returns the value of the first comment whose name matches (ASCII
// case-insensitively, per the Vorbis comment convention), and whether one
// was found.
func (v *VorbisComment) Get(name string) (string, bool) {
	for _, c := range v.Comments {
		if asciiEqualFold(c.Name, name) {
			return c.Value, true
		}
	}
	return "", false
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// CueSheetIndex is one INDEX point within a CueSheetTrack.
type CueSheetIndex struct {
	Offset uint64
	Number uint8
}

// CueSheetTrack is one TRACK entry within a CueSheet.
type CueSheetTrack struct {
	Offset      uint64
	Number      uint8
	ISRC        [12]byte
	IsAudio     bool
	PreEmphasis bool
	Indices     []CueSheetIndex
}

// CueSheet describes a CD-style track layout over the encoded audio.
type CueSheet struct {
	MediaCatalogNumber [128]byte
	LeadInSamples      uint64
	IsCD               bool
	Tracks             []CueSheetTrack
}

// PictureType enumerates the PICTURE block's picture-type codes (spec
// GLOSSARY). Out-of-range wire values decode to PictureOther.
type PictureType uint32

const (
	PictureOther             PictureType = 0
	PictureFileIcon          PictureType = 1
	PictureOtherFileIcon     PictureType = 2
	PictureFrontCover        PictureType = 3
	PictureBackCover         PictureType = 4
	PictureLeafletPage       PictureType = 5
	PictureMedia             PictureType = 6
	PictureLeadArtist        PictureType = 7
	PictureArtist            PictureType = 8
	PictureConductor         PictureType = 9
	PictureBand              PictureType = 10
	PictureComposer          PictureType = 11
	PictureLyricist          PictureType = 12
	PictureRecordingLocation PictureType = 13
	PictureDuringRecording   PictureType = 14
	PictureDuringPerformance PictureType = 15
	PictureVideoCapture      PictureType = 16
	PictureFish              PictureType = 17 // e.g. a fish, per the format's own example
	PictureIllustration      PictureType = 18
	PictureBandLogo          PictureType = 19
	PicturePublisherLogo     PictureType = 20
)

// Picture is an embedded image metadata block.
type Picture struct {
	Type        PictureType
	MIME        string
	Description string
	Width       uint32
	Height      uint32
	ColorDepth  uint32
	NumColors   uint32 // 0 for non-indexed formats
	Data        []byte
}

// UnknownBlock retains the opaque bytes of a metadata block type this
// library does not interpret (wire codes 7..126).
type UnknownBlock struct {
	Data []byte
}

// ChannelAssignment identifies which inter-channel decorrelation, if any,
// the frame's stored channels use.
type ChannelAssignment uint8

const (
	ChannelIndependent ChannelAssignment = iota
	ChannelLeftSide
	ChannelSideRight
	ChannelMidSide
)

// FrameHeader is the parsed, CRC-verified header of one audio frame.
type FrameHeader struct {
	BlockSize         uint16
	SampleRate        uint32
	Channels          uint8
	ChannelAssignment ChannelAssignment
	BitsPerSample     uint8
	IsVariable        bool   // true: Number is a sample index; false: a frame index
	Number            uint64
}
