package disclosure

// Item is one line of a card's detail list.
type Item struct {
	Label    string
	Progress int
}

// Percent is Progress clamped to 0..100.
func (i Item) Percent() int {
	return Clamp(i.Progress)
}

// Card owns one disclosure state and the static detail list it reveals.
type Card struct {
	ID     string
	Detail []Item
	state  State
}

// NewCard returns a collapsed card.
func NewCard(id string, detail []Item) *Card {
	return &Card{ID: id, Detail: detail}
}

// Restore returns a card in a known state, used when the state travels
// with the request.
func Restore(id string, detail []Item, s State) *Card {
	return &Card{ID: id, Detail: detail, state: s}
}

// Handle routes an input through Activate.
func (c *Card) Handle(in Input) Outcome {
	next, out := Activate(c.state, in)
	c.state = next
	return out
}

// State returns the current state.
func (c *Card) State() State { return c.state }

// Expanded reports whether the detail list is showing.
func (c *Card) Expanded() bool { return c.state.Expanded }

// Visible returns the detail list while expanded and nil otherwise.
func (c *Card) Visible() []Item {
	if !c.state.Expanded {
		return nil
	}
	return c.Detail
}

// Clamp limits a progress value to 0..100.
func Clamp(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
