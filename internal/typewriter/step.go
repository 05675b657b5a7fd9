// Package typewriter types a list of phrases out one code point at a
// time and deletes them again, driven by an injectable clock.
package typewriter

import "time"

// Config is fixed for the lifetime of one animation chain.
type Config struct {
	Phrases    []string
	StartDelay time.Duration
	TypeSpeed  time.Duration
	BackSpeed  time.Duration
	Loop       bool
}

// Direction is the phase the engine is in.
type Direction int

const (
	Idle Direction = iota
	Typing
	Deleting
)

func (d Direction) String() string {
	switch d {
	case Typing:
		return "typing"
	case Deleting:
		return "deleting"
	default:
		return "idle"
	}
}

// State is the position of one running animation.
type State struct {
	PhraseIndex int
	CursorPos   int
	Direction   Direction
	Finished    bool
}

// Text is the visible part of the current phrase.
func (s State) Text(phrases [][]rune) string {
	if len(phrases) == 0 {
		return ""
	}
	return string(phrases[s.PhraseIndex][:s.CursorPos])
}

// Step returns the state that follows s and how long to wait before it
// applies. ok is false once s is terminal.
func Step(cfg Config, phrases [][]rune, s State) (next State, wait time.Duration, ok bool) {
	if s.Finished || !animatable(phrases) {
		return s, 0, false
	}
	last := len(phrases) - 1
	cur := phrases[s.PhraseIndex]

	switch s.Direction {
	case Idle:
		return State{Direction: Typing}, cfg.StartDelay, true

	case Typing:
		if s.CursorPos < len(cur) {
			s.CursorPos++
			return s, cfg.TypeSpeed, true
		}
		if s.PhraseIndex == last && !cfg.Loop {
			s.Finished = true
			return s, 0, false
		}
		s.Direction = Deleting
		return s, 0, true

	case Deleting:
		if s.CursorPos > 0 {
			s.CursorPos--
			return s, cfg.BackSpeed, true
		}
		return State{
			PhraseIndex: (s.PhraseIndex + 1) % len(phrases),
			Direction:   Typing,
		}, 0, true
	}
	return s, 0, false
}

// Split converts phrases into code points.
func Split(phrases []string) [][]rune {
	out := make([][]rune, len(phrases))
	for i, p := range phrases {
		out[i] = []rune(p)
	}
	return out
}

// animatable is false when there is nothing to type at all, which
// would otherwise loop forever without waiting.
func animatable(phrases [][]rune) bool {
	for _, p := range phrases {
		if len(p) > 0 {
			return true
		}
	}
	return false
}

// Final is the text left on screen by a run that does not loop: the
// last phrase in full. Pages render it statically when the animation
// cannot play.
func Final(cfg Config) string {
	if len(cfg.Phrases) == 0 {
		return ""
	}
	return cfg.Phrases[len(cfg.Phrases)-1]
}
