package flac

import (
	"encoding/binary"
	"fmt"
)

// streamMarker is the four-byte ASCII signature that must open every FLAC
// stream.
var streamMarker = [4]byte{'f', 'L', 'a', 'C'}

// readStreamMarker consumes and validates the four-byte "fLaC" signature.
func readStreamMarker(src byteSource) error {
	_, err := parseUnit(src, 4, func(buf []byte) (struct{}, int, error) {
		if len(buf) < 4 {
			return struct{}{}, 0, needBytes(4 - len(buf))
		}
		if buf[0] != streamMarker[0] || buf[1] != streamMarker[1] ||
			buf[2] != streamMarker[2] || buf[3] != streamMarker[3] {
			return struct{}{}, 0, ErrBadSignature
		}
		return struct{}{}, 4, nil
	})
	return err
}

// readMetadataChain drives the metadata block parser until the last-block
// flag is observed, returning the mandatory STREAMINFO separately from the
// remaining blocks in declaration order (spec §4.3).
func readMetadataChain(src byteSource) (StreamInfo, []*MetadataBlock, error) {
	var si StreamInfo
	var blocks []*MetadataBlock
	first := true
	for {
		block, err := parseUnit(src, 4, parseMetadataBlock)
		if err != nil {
			return si, nil, err
		}
		if first {
			if block.Type != BlockTypeStreamInfo || block.StreamInfo == nil {
				return si, nil, ErrMissingStreamInfo
			}
			si = *block.StreamInfo
			first = false
		} else {
			blocks = append(blocks, block)
		}
		if block.IsLast {
			return si, blocks, nil
		}
	}
}

// parseMetadataBlock parses one full metadata block (header + body) out of
// buf, or reports Incomplete if buf does not yet hold the whole block.
func parseMetadataBlock(buf []byte) (*MetadataBlock, int, error) {
	if len(buf) < 4 {
		return nil, 0, needBytes(4 - len(buf))
	}
	headerByte := buf[0]
	isLast := headerByte&0x80 != 0
	typeCode := headerByte & 0x7F
	length := int(assembleBE(buf[1:4]))

	if typeCode == 127 {
		return nil, 0, fmt.Errorf("%w: invalid block type 127", ErrBadMetadataHeader)
	}

	total := 4 + length
	if len(buf) < total {
		return nil, 0, needBytes(total - len(buf))
	}
	body := buf[4:total]

	block := &MetadataBlock{IsLast: isLast, Type: BlockType(typeCode)}
	var err error
	switch block.Type {
	case BlockTypeStreamInfo:
		block.StreamInfo, err = parseStreamInfo(body)
	case BlockTypePadding:
		err = verifyPadding(body)
		if err == nil {
			block.Padding = &Padding{Length: len(body)}
		}
	case BlockTypeApplication:
		block.Application, err = parseApplication(body)
	case BlockTypeSeekTable:
		block.SeekTable, err = parseSeekTable(body)
	case BlockTypeVorbisComment:
		block.VorbisComment, err = parseVorbisComment(body)
	case BlockTypeCueSheet:
		block.CueSheet, err = parseCueSheet(body)
	case BlockTypePicture:
		block.Picture, err = parsePicture(body)
	default:
		if typeCode < 7 || typeCode > 126 {
			err = fmt.Errorf("%w: unhandled block type %d", ErrBadMetadataHeader, typeCode)
		} else {
			block.Unknown = &UnknownBlock{Data: append([]byte(nil), body...)}
		}
	}
	if err != nil {
		return nil, 0, err
	}
	return block, total, nil
}

func parseStreamInfo(body []byte) (*StreamInfo, error) {
	if len(body) != 34 {
		return nil, fmt.Errorf("%w: want 34 bytes, got %d", ErrBadStreamInfo, len(body))
	}
	si := &StreamInfo{
		MinBlockSize: binary.BigEndian.Uint16(body[0:2]),
		MaxBlockSize: binary.BigEndian.Uint16(body[2:4]),
		MinFrameSize: assembleBE(body[4:7]),
		MaxFrameSize: assembleBE(body[7:10]),
	}
	// Packed field, bytes 10..17: 20-bit sample rate, 3-bit (channels-1),
	// 5-bit (bits-per-sample-1), 36-bit total samples.
	packed := uint64(body[10])<<56 | uint64(body[11])<<48 | uint64(body[12])<<40 |
		uint64(body[13])<<32 | uint64(body[14])<<24 | uint64(body[15])<<16 |
		uint64(body[16])<<8 | uint64(body[17])
	si.SampleRate = uint32(packed >> 44)
	si.Channels = uint8((packed>>41)&0x7) + 1
	si.BitsPerSample = uint8((packed>>36)&0x1F) + 1
	si.TotalSamples = packed & 0xFFFFFFFFF
	copy(si.MD5Sum[:], body[18:34])
	return si, nil
}

func verifyPadding(body []byte) error {
	for _, b := range body {
		if b != 0 {
			return ErrBadPadding
		}
	}
	return nil
}

func parseApplication(body []byte) (*Application, error) {
	if len(body) < 4 {
		return nil, fmt.Errorf("%w: body too short for application id", ErrBadApplication)
	}
	app := &Application{Data: append([]byte(nil), body[4:]...)}
	copy(app.ID[:], body[:4])
	return app, nil
}

const seekPointSize = 18

func parseSeekTable(body []byte) (*SeekTable, error) {
	if len(body)%seekPointSize != 0 {
		return nil, fmt.Errorf("%w: length %d not a multiple of %d", ErrBadSeekTable, len(body), seekPointSize)
	}
	n := len(body) / seekPointSize
	st := &SeekTable{Points: make([]SeekPoint, n)}
	for i := 0; i < n; i++ {
		p := body[i*seekPointSize:]
		st.Points[i] = SeekPoint{
			SampleNumber: binary.BigEndian.Uint64(p[0:8]),
			StreamOffset: binary.BigEndian.Uint64(p[8:16]),
			FrameSamples: binary.BigEndian.Uint16(p[16:18]),
		}
	}
	return st, nil
}

// parseVorbisComment decodes the little-endian length-prefixed vendor
// string and comment list, per the Vorbis comment header spec referenced by
// §4.3. Comment lines are split on the first '=' into NAME and VALUE.
func parseVorbisComment(body []byte) (*VorbisComment, error) {
	r := &leReader{buf: body}
	vendor, err := r.readLVString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVorbisComment, err)
	}
	count, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVorbisComment, err)
	}
	vc := &VorbisComment{Vendor: vendor, Comments: make([]VorbisCommentPair, 0, count)}
	for i := uint32(0); i < count; i++ {
		line, err := r.readLVString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadVorbisComment, err)
		}
		idx := -1
		for j := 0; j < len(line); j++ {
			if line[j] == '=' {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: comment %q missing '='", ErrBadVorbisComment, line)
		}
		vc.Comments = append(vc.Comments, VorbisCommentPair{Name: line[:idx], Value: line[idx+1:]})
	}
	if !r.atEnd() {
		return nil, fmt.Errorf("%w: trailing bytes after comments", ErrBadVorbisComment)
	}
	return vc, nil
}

// leReader reads little-endian length-prefixed fields out of a fixed byte
// slice, used only for the Vorbis comment block (the one place FLAC's
// metadata format borrows Vorbis's little-endian convention, per §9).
type leReader struct {
	buf []byte
	pos int
}

func (r *leReader) readU32() (uint32, error) {
	if len(r.buf)-r.pos < 4 {
		return 0, fmt.Errorf("unexpected end of block")
	}
	v := uint32(r.buf[r.pos]) | uint32(r.buf[r.pos+1])<<8 | uint32(r.buf[r.pos+2])<<16 | uint32(r.buf[r.pos+3])<<24
	r.pos += 4
	return v, nil
}

func (r *leReader) readLVString() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	if uint32(len(r.buf)-r.pos) < n {
		return "", fmt.Errorf("unexpected end of block")
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *leReader) atEnd() bool {
	return r.pos == len(r.buf)
}

const (
	cueSheetMediaCatalogLen = 128
	cueSheetReservedLen     = 258
	cueSheetTrackReserved   = 13
	cueSheetTrackISRCLen    = 12
)

func parseCueSheet(body []byte) (*CueSheet, error) {
	const fixedLen = cueSheetMediaCatalogLen + 8 + 1 + cueSheetReservedLen + 1
	if len(body) < fixedLen {
		return nil, fmt.Errorf("%w: body too short", ErrBadCueSheet)
	}
	cs := &CueSheet{}
	copy(cs.MediaCatalogNumber[:], body[:cueSheetMediaCatalogLen])
	off := cueSheetMediaCatalogLen
	cs.LeadInSamples = binary.BigEndian.Uint64(body[off : off+8])
	off += 8
	flagByte := body[off]
	off++
	cs.IsCD = flagByte&0x80 != 0
	if flagByte&0x7F != 0 {
		return nil, fmt.Errorf("%w: reserved bits set in CD flag byte", ErrBadCueSheet)
	}
	for _, b := range body[off : off+cueSheetReservedLen] {
		if b != 0 {
			return nil, fmt.Errorf("%w: non-zero reserved byte", ErrBadCueSheet)
		}
	}
	off += cueSheetReservedLen
	trackCount := int(body[off])
	off++

	for i := 0; i < trackCount; i++ {
		track, n, err := parseCueSheetTrack(body[off:])
		if err != nil {
			return nil, err
		}
		cs.Tracks = append(cs.Tracks, track)
		off += n
	}
	if off != len(body) {
		return nil, fmt.Errorf("%w: trailing bytes after tracks", ErrBadCueSheet)
	}
	return cs, nil
}

func parseCueSheetTrack(body []byte) (CueSheetTrack, int, error) {
	const fixedLen = 8 + 1 + cueSheetTrackISRCLen + 1 + cueSheetTrackReserved + 1
	if len(body) < fixedLen {
		return CueSheetTrack{}, 0, fmt.Errorf("%w: track body too short", ErrBadCueSheet)
	}
	var t CueSheetTrack
	off := 0
	t.Offset = binary.BigEndian.Uint64(body[off : off+8])
	off += 8
	t.Number = body[off]
	off++
	copy(t.ISRC[:], body[off:off+cueSheetTrackISRCLen])
	off += cueSheetTrackISRCLen
	flagByte := body[off]
	off++
	t.IsAudio = flagByte&0x80 == 0
	t.PreEmphasis = flagByte&0x40 != 0
	if flagByte&0x3F != 0 {
		return CueSheetTrack{}, 0, fmt.Errorf("%w: reserved bits set in track flag byte", ErrBadCueSheet)
	}
	for _, b := range body[off : off+cueSheetTrackReserved] {
		if b != 0 {
			return CueSheetTrack{}, 0, fmt.Errorf("%w: non-zero reserved byte in track", ErrBadCueSheet)
		}
	}
	off += cueSheetTrackReserved
	indexCount := int(body[off])
	off++

	for i := 0; i < indexCount; i++ {
		if len(body)-off < 12 {
			return CueSheetTrack{}, 0, fmt.Errorf("%w: index body too short", ErrBadCueSheet)
		}
		idx := CueSheetIndex{
			Offset: binary.BigEndian.Uint64(body[off : off+8]),
			Number: body[off+8],
		}
		for _, b := range body[off+9 : off+12] {
			if b != 0 {
				return CueSheetTrack{}, 0, fmt.Errorf("%w: non-zero reserved byte in index", ErrBadCueSheet)
			}
		}
		off += 12
		t.Indices = append(t.Indices, idx)
	}
	return t, off, nil
}

func parsePicture(body []byte) (*Picture, error) {
	r := &beReader{buf: body}
	typeCode, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	mime, err := r.readLVString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	desc, err := r.readLVString()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	width, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	height, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	depth, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	numColors, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	data, err := r.readLVBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPicture, err)
	}
	if !r.atEnd() {
		return nil, fmt.Errorf("%w: trailing bytes after payload", ErrBadPicture)
	}
	pt := PictureType(typeCode)
	if typeCode > uint32(PicturePublisherLogo) {
		pt = PictureOther
	}
	return &Picture{
		Type:        pt,
		MIME:        mime,
		Description: desc,
		Width:       width,
		Height:      height,
		ColorDepth:  depth,
		NumColors:   numColors,
		Data:        data,
	}, nil
}

// beReader reads big-endian length-prefixed fields, used by the PICTURE
// block (every other multi-byte field in FLAC metadata is big-endian; only
// Vorbis comment strings use little-endian length prefixes, per §9).
type beReader struct {
	buf []byte
	pos int
}

func (r *beReader) readU32() (uint32, error) {
	if len(r.buf)-r.pos < 4 {
		return 0, fmt.Errorf("unexpected end of block")
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *beReader) readLVString() (string, error) {
	b, err := r.readLVBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *beReader) readLVBytes() ([]byte, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if uint32(len(r.buf)-r.pos) < n {
		return nil, fmt.Errorf("unexpected end of block")
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return append([]byte(nil), b...), nil
}

func (r *beReader) atEnd() bool {
	return r.pos == len(r.buf)
}

// SelectPicture filters blocks by the given constraint and returns the
// picture with the largest area (Width*Height), breaking ties by greater
// color depth, per spec §4.3.
func SelectPicture(blocks []*MetadataBlock, c PictureConstraint) (*Picture, bool) {
	var best *Picture
	for _, b := range blocks {
		p := b.Picture
		if p == nil {
			continue
		}
		if !c.matches(p) {
			continue
		}
		if best == nil || betterPicture(p, best) {
			best = p
		}
	}
	return best, best != nil
}

func betterPicture(candidate, current *Picture) bool {
	ca := uint64(candidate.Width) * uint64(candidate.Height)
	cb := uint64(current.Width) * uint64(current.Height)
	if ca != cb {
		return ca > cb
	}
	return candidate.ColorDepth > current.ColorDepth
}

// PictureConstraint narrows SelectPicture to pictures matching all set
// fields; zero values are treated as "no constraint" except MaxWidth/
// MaxHeight/MaxDepth/MaxColors, which are only applied when non-zero.
type PictureConstraint struct {
	Type        *PictureType
	MIME        string
	Description string
	MaxWidth    uint32
	MaxHeight   uint32
	MaxDepth    uint32
	MaxColors   uint32
}

func (c PictureConstraint) matches(p *Picture) bool {
	if c.Type != nil && p.Type != *c.Type {
		return false
	}
	if c.MIME != "" && p.MIME != c.MIME {
		return false
	}
	if c.Description != "" && p.Description != c.Description {
		return false
	}
	if c.MaxWidth != 0 && p.Width > c.MaxWidth {
		return false
	}
	if c.MaxHeight != 0 && p.Height > c.MaxHeight {
		return false
	}
	if c.MaxDepth != 0 && p.ColorDepth > c.MaxDepth {
		return false
	}
	if c.MaxColors != 0 && p.NumColors > c.MaxColors {
		return false
	}
	return true
}
