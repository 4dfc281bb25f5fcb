package vision

import "context"

// Fake is a deterministic Analyzer for tests.
type Fake struct {
	Text  string
	Err   error
	Calls int

	// LastPrompt records the prompt of the most recent call.
	LastPrompt string
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, Err: err}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Analyze(_ context.Context, prompt, _ string) (string, error) {
	f.Calls++
	f.LastPrompt = prompt
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}
