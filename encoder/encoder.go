// Package encoder turns captured PCM blocks into a compressed audio
// container suitable for upload to the transcription service.
package encoder

import "time"

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

// Encoder accepts fixed-size PCM blocks and produces a complete encoded
// stream once closed. Bytes is only valid after Close.
type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
	Duration() time.Duration
}
