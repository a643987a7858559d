// Package tui provides a Bubble Tea terminal UI for inspecting effect passes.
package tui

// History is a fixed-size ring of submitted commands with a recall cursor
// for Up/Down navigation.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	n      int
	cursor int // -1 = not navigating, 0..n-1 = age-ordered position
}

// NewHistory creates a history holding at most size commands.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{ring: make([]string, size), cursor: -1}
}

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Len returns the number of stored commands.
func (h *History) Len() int { return h.n }

// Push records a command, evicting the oldest when full. A repeat of the
// newest command is not stored twice.
func (h *History) Push(cmd string) {
	if h.n > 0 && h.at(h.n-1) == cmd {
		return
	}
	if h.n < len(h.ring) {
		h.ring[(h.start+h.n)%len(h.ring)] = cmd
		h.n++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps to the next older command, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.n - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps to the next newer command. Stepping past the newest returns
// ("", false) and leaves navigation.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.n {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor leaves navigation; the next Prev starts from the newest.
func (h *History) ResetCursor() {
	h.cursor = -1
}
