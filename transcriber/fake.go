package transcriber

import "context"

// Fake is a deterministic Transcriber for tests: fixed text or fixed error,
// with an invocation counter.
type Fake struct {
	Text  string
	Err   error
	Calls int
	lang  string
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, Err: err}
}

func (f *Fake) Name() string            { return "fake" }
func (f *Fake) SetLanguage(lang string) { f.lang = lang }
func (f *Fake) GetLanguage() string     { return f.lang }

func (f *Fake) Transcribe(_ context.Context, _ string) (*Result, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return &Result{
		Text:      f.Text,
		Metrics:   &NetworkMetrics{},
		RateLimit: "?/?",
	}, nil
}
