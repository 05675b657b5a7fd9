package typewriter

import "time"

// Keyframe is a text change and the delay before it, as served to the
// browser-side player.
type Keyframe struct {
	Delay time.Duration `json:"-"`
	Ms    int64         `json:"ms"`
	Text  string        `json:"text"`
}

// Timeline expands Step into keyframes. For a looping config it covers
// exactly one period, from the first keystroke of the first phrase to
// the moment the last phrase is fully deleted; a player repeats it
// after the initial start delay. Without Loop it covers the whole run.
// The start delay is returned separately.
func Timeline(cfg Config) (startDelay time.Duration, frames []Keyframe) {
	phrases := Split(cfg.Phrases)
	if !animatable(phrases) {
		return 0, nil
	}

	state, wait, _ := Step(cfg, phrases, State{})
	startDelay = wait
	text := ""
	var pending time.Duration

	for {
		next, wait, ok := Step(cfg, phrases, state)
		if !ok {
			return startDelay, frames
		}
		pending += wait
		if next.Direction == Typing && next.CursorPos == 0 && next.PhraseIndex == 0 &&
			state.Direction == Deleting {
			return startDelay, frames
		}
		state = next
		if t := state.Text(phrases); t != text {
			text = t
			frames = append(frames, Keyframe{Delay: pending, Ms: pending.Milliseconds(), Text: t})
			pending = 0
		}
	}
}
