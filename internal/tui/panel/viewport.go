// ABOUTME: Viewport width source for the panel state machine
// ABOUTME: Broadcaster fans terminal size changes out to subscribers in logical pixels

package panel

import "sync"

// Viewport reports the current width in logical pixels and notifies on change.
type Viewport interface {
	Width() int
	Subscribe(fn func(width int)) (unsubscribe func())
}

// DefaultCellWidthPx converts terminal columns to logical pixels.
const DefaultCellWidthPx = 8

// ColumnsToPx converts a terminal width in cells to logical pixels.
func ColumnsToPx(columns, cellWidthPx int) int {
	if cellWidthPx <= 0 {
		cellWidthPx = DefaultCellWidthPx
	}
	if columns < 0 {
		columns = 0
	}
	return columns * cellWidthPx
}

// Broadcaster is a Viewport driven by explicit Set calls, usually from
// tea.WindowSizeMsg.
type Broadcaster struct {
	mu     sync.Mutex
	width  int
	nextID int
	subs   map[int]func(int)
}

func NewBroadcaster(width int) *Broadcaster {
	return &Broadcaster{width: width, subs: make(map[int]func(int))}
}

func (b *Broadcaster) Width() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width
}

func (b *Broadcaster) Subscribe(fn func(width int)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Subscribers is the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Set records the width and notifies every subscriber, even when unchanged.
func (b *Broadcaster) Set(width int) {
	b.mu.Lock()
	b.width = width
	fns := make([]func(int), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}
