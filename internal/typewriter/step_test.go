package typewriter

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestStepTransitions(t *testing.T) {
	cfg := Config{StartDelay: time.Second, TypeSpeed: 2 * time.Millisecond, BackSpeed: 3 * time.Millisecond}
	phrases := Split([]string{"ab", "c"})

	tests := []struct {
		name string
		in   State
		want State
		wait time.Duration
		ok   bool
	}{
		{"start", State{}, State{Direction: Typing}, time.Second, true},
		{"type", State{Direction: Typing, CursorPos: 1}, State{Direction: Typing, CursorPos: 2}, 2 * time.Millisecond, true},
		{"turn", State{Direction: Typing, CursorPos: 2}, State{Direction: Deleting, CursorPos: 2}, 0, true},
		{"delete", State{Direction: Deleting, CursorPos: 2}, State{Direction: Deleting, CursorPos: 1}, 3 * time.Millisecond, true},
		{"next phrase", State{Direction: Deleting}, State{PhraseIndex: 1, Direction: Typing}, 0, true},
		{"last phrase ends", State{PhraseIndex: 1, Direction: Typing, CursorPos: 1}, State{PhraseIndex: 1, Direction: Typing, CursorPos: 1, Finished: true}, 0, false},
		{"finished", State{Finished: true}, State{Finished: true}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, wait, ok := Step(cfg, phrases, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wait, wait)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestStepWrapsWhenLooping(t *testing.T) {
	cfg := Config{Loop: true}
	got, _, ok := Step(cfg, Split([]string{"ab", "c"}), State{PhraseIndex: 1, Direction: Deleting})
	assert.True(t, ok)
	assert.Equal(t, State{PhraseIndex: 0, Direction: Typing}, got)
}

func TestTimelineLooping(t *testing.T) {
	delay, frames := Timeline(Config{
		Phrases:    []string{"Hi", "Yo"},
		StartDelay: time.Second,
		TypeSpeed:  10 * time.Millisecond,
		BackSpeed:  20 * time.Millisecond,
		Loop:       true,
	})
	assert.Equal(t, time.Second, delay)

	var texts []string
	var ms []int64
	for _, f := range frames {
		texts = append(texts, f.Text)
		ms = append(ms, f.Ms)
	}
	assert.Equal(t, []string{"H", "Hi", "H", "", "Y", "Yo", "Y", ""}, texts)
	assert.Equal(t, []int64{10, 10, 20, 20, 10, 10, 20, 20}, ms)
}

func TestTimelineFinite(t *testing.T) {
	_, frames := Timeline(Config{Phrases: []string{"a", "b"}, TypeSpeed: time.Millisecond, BackSpeed: 2 * time.Millisecond})
	want := []Keyframe{
		{Ms: 1, Text: "a"},
		{Ms: 2, Text: ""},
		{Ms: 1, Text: "b"},
	}
	if diff := cmp.Diff(want, frames, cmpopts.IgnoreFields(Keyframe{}, "Delay")); diff != "" {
		t.Errorf("Timeline() mismatch (-want +got):\n%s", diff)
	}
}

func TestTimelineEmpty(t *testing.T) {
	delay, frames := Timeline(Config{Phrases: []string{""}, Loop: true})
	assert.Zero(t, delay)
	assert.Empty(t, frames)
}

func TestFinal(t *testing.T) {
	assert.Equal(t, "", Final(Config{}))
	assert.Equal(t, "Yo", Final(Config{Phrases: []string{"Hi", "Yo"}}))
}
