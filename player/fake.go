package player

import "context"

// Fake is a deterministic Player for tests.
type Fake struct {
	Err   error
	Calls int

	// LastPath records the file of the most recent call.
	LastPath string
}

func (f *Fake) Name() string    { return "fake" }
func (f *Fake) Available() bool { return true }

func (f *Fake) Play(_ context.Context, path string) error {
	f.Calls++
	f.LastPath = path
	return f.Err
}
