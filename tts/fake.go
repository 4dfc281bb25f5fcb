package tts

import "context"

// Fake is a deterministic Synthesizer for tests.
type Fake struct {
	Audio []byte
	Err   error
	Calls int

	// LastText records the text of the most recent call.
	LastText string
}

func NewFake(audio []byte, err error) *Fake {
	return &Fake{Audio: audio, Err: err}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.Calls++
	f.LastText = text
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Audio, nil
}
