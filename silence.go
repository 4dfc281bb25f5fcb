package main

import "time"

const (
	tickInterval = 100 * time.Millisecond

	// Trailing silence that ends a phrase once speech has been heard.
	phraseTailDur = 1500 * time.Millisecond

	// RMS level above which a tick counts as speech.
	speechRMSThreshold = 0.015
)

type ListenEvent int

const (
	ListenNone        ListenEvent = iota
	ListenTimeout                 // no speech heard within the listen timeout
	ListenPhraseLimit             // phrase exceeded the configured limit
	ListenPhraseEnd               // trailing silence after speech
)

// listenMonitor decides when a recording should stop, mirroring how a
// push-to-talk listener bounds its capture: give up if the speaker never
// starts, cap how long one phrase can run, and stop once the speaker has
// clearly finished.
type listenMonitor struct {
	timeoutTicks int
	limitTicks   int
	tailTicks    int

	ticks       int
	speechSeen  bool
	speechTicks int
	silentRun   int
}

func newListenMonitor(timeout, phraseLimit time.Duration) *listenMonitor {
	return &listenMonitor{
		timeoutTicks: int(timeout / tickInterval),
		limitTicks:   int(phraseLimit / tickInterval),
		tailTicks:    int(phraseTailDur / tickInterval),
	}
}

func (m *listenMonitor) Tick(hasSpeech bool) ListenEvent {
	m.ticks++
	if hasSpeech {
		m.speechSeen = true
		m.speechTicks++
		m.silentRun = 0
	} else {
		m.silentRun++
	}

	if !m.speechSeen {
		if m.timeoutTicks > 0 && m.ticks >= m.timeoutTicks {
			return ListenTimeout
		}
		return ListenNone
	}

	if m.limitTicks > 0 && m.speechTicks >= m.limitTicks {
		return ListenPhraseLimit
	}
	if m.silentRun >= m.tailTicks {
		return ListenPhraseEnd
	}
	return ListenNone
}
