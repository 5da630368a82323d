// Package flac decodes the Free Lossless Audio Codec bitstream: metadata
// blocks, frames, subframes, and Rice-coded residuals, reconstructed into
// integer PCM samples.
//
// Open, OpenFile, and ParseBytes all return a *Stream positioned at the
// first audio frame; Next pulls decoded samples from it lazily, one frame
// at a time, retrying transparently on short reads from a streaming source.
package flac
