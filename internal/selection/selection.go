// Package selection implements drag-to-paint editing of one participant's
// availability marks.
//
// A gesture starts with Press on a cell, continues with Enter for every cell
// the pointer passes over and ends with Release. The first cell decides
// whether the gesture adds or removes marks; every other cell in the gesture
// gets the same effect.
package selection

import (
	"errors"
	"fmt"
	"maps"

	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// Machine errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrInvalidMode   = errors.New("paint mode must be available or maybe")
)

const defaultMaxHistory = 50

// Mark is the state of a single cell.
type Mark int

const (
	Unmarked Mark = iota
	Available
	Maybe
)

func (m Mark) String() string {
	switch m {
	case Available:
		return "available"
	case Maybe:
		return "maybe"
	default:
		return "unmarked"
	}
}

// Intent is what the current gesture does to the cells it enters.
type Intent int

const (
	IntentAdd Intent = iota
	IntentRemove
)

func (i Intent) String() string {
	if i == IntentRemove {
		return "remove"
	}
	return "add"
}

// State is a snapshot of the gesture state, for rendering and logging.
type State struct {
	Painting bool
	Mode     Mark
	Intent   Intent
}

type historyEntry struct {
	description string
	marks       map[slot.Key]Mark
}

// Machine holds the saved and working marks for one grid.
// It is not safe for concurrent use.
type Machine struct {
	grid daterange.Range

	// last submitted response
	saved map[slot.Key]Mark
	// in-progress edits; only marked cells are stored
	working map[slot.Key]Mark

	mode     Mark
	painting bool
	intent   Intent
	disabled bool

	history    []historyEntry
	maxHistory int
}

// New returns an idle machine in Available mode with no marks.
func New(grid daterange.Range) *Machine {
	return &Machine{
		grid:       grid,
		saved:      map[slot.Key]Mark{},
		working:    map[slot.Key]Mark{},
		mode:       Available,
		maxHistory: defaultMaxHistory,
	}
}

// Grid returns the grid the machine edits.
func (m *Machine) Grid() daterange.Range {
	return m.grid
}

// Load replaces the saved state with a submitted response and resets the
// working state to it. Keys outside the grid are dropped. A key present in
// both lists is treated as available.
func (m *Machine) Load(available, maybe []slot.Key) {
	marks := make(map[slot.Key]Mark, len(available)+len(maybe))
	for _, k := range maybe {
		if m.grid.Contains(k) {
			marks[k] = Maybe
		}
	}
	for _, k := range available {
		if m.grid.Contains(k) {
			marks[k] = Available
		}
	}
	m.saved = marks
	m.working = maps.Clone(marks)
	m.history = nil
	m.painting = false
}

// Mark returns the working mark for k.
func (m *Machine) Mark(k slot.Key) Mark {
	return m.working[k]
}

// Mode returns the active paint mode.
func (m *Machine) Mode() Mark {
	return m.mode
}

// SetMode changes the paint mode. It ends any gesture in progress.
func (m *Machine) SetMode(mode Mark) error {
	if mode != Available && mode != Maybe {
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
	m.painting = false
	m.mode = mode
	return nil
}

// ToggleMode switches between Available and Maybe.
func (m *Machine) ToggleMode() Mark {
	if m.mode == Available {
		_ = m.SetMode(Maybe)
	} else {
		_ = m.SetMode(Available)
	}
	return m.mode
}

// State returns the current gesture state.
func (m *Machine) State() State {
	return State{Painting: m.painting, Mode: m.mode, Intent: m.intent}
}

// Painting reports whether a gesture is in progress.
func (m *Machine) Painting() bool {
	return m.painting
}

// Disabled reports whether edits are currently ignored.
func (m *Machine) Disabled() bool {
	return m.disabled
}

// SetDisabled blocks or unblocks edits. Disabling ends any gesture.
func (m *Machine) SetDisabled(disabled bool) {
	m.disabled = disabled
	if disabled {
		m.painting = false
	}
}

// Press starts a gesture on k and applies it to k. It reports whether the
// press was accepted. A press while already painting ends the previous
// gesture first.
func (m *Machine) Press(k slot.Key) bool {
	if m.disabled || !m.grid.Contains(k) {
		return false
	}
	m.painting = false

	m.pushHistory("paint " + string(k))
	if m.working[k] == m.mode {
		m.intent = IntentRemove
		delete(m.working, k)
	} else {
		m.intent = IntentAdd
		m.working[k] = m.mode
	}
	m.painting = true
	return true
}

// Enter applies the current gesture to k. It reports whether k changed.
func (m *Machine) Enter(k slot.Key) bool {
	if !m.painting || m.disabled || !m.grid.Contains(k) {
		return false
	}
	cur := m.working[k]
	switch m.intent {
	case IntentAdd:
		if cur == m.mode {
			return false
		}
		m.working[k] = m.mode
	case IntentRemove:
		if cur != m.mode {
			return false
		}
		delete(m.working, k)
	}
	return true
}

// Release ends the gesture. It is safe to call at any time.
func (m *Machine) Release() {
	m.painting = false
}

// SelectAll marks every grid cell available and clears every maybe.
func (m *Machine) SelectAll() bool {
	next := make(map[slot.Key]Mark, m.grid.Len()*slot.HoursPerDay)
	for _, k := range m.grid.Keys() {
		next[k] = Available
	}
	return m.replace("select all", next)
}

// ClearAll removes every mark.
func (m *Machine) ClearAll() bool {
	return m.replace("clear all", map[slot.Key]Mark{})
}

// SelectHours moves every cell in hours [from, to] on every day into the
// active mode.
func (m *Machine) SelectHours(from, to int) bool {
	next := maps.Clone(m.working)
	for _, k := range m.grid.HourBand(from, to) {
		next[k] = m.mode
	}
	return m.replace(fmt.Sprintf("hours %d-%d", from, to), next)
}

// Apply replaces the working marks with the given keys as one undoable
// step. Keys outside the grid are dropped. A key in both lists is kept as
// available.
func (m *Machine) Apply(description string, available, maybe []slot.Key) bool {
	next := make(map[slot.Key]Mark, len(available)+len(maybe))
	for _, k := range maybe {
		if m.grid.Contains(k) {
			next[k] = Maybe
		}
	}
	for _, k := range available {
		if m.grid.Contains(k) {
			next[k] = Available
		}
	}
	return m.replace(description, next)
}

// replace swaps the working state in one step, recording one undo entry.
func (m *Machine) replace(description string, next map[slot.Key]Mark) bool {
	m.painting = false
	if m.disabled || maps.Equal(next, m.working) {
		return false
	}
	m.pushHistory(description)
	m.working = next
	return true
}

// HasChanges reports whether the working state differs from the saved one.
func (m *Machine) HasChanges() bool {
	return !maps.Equal(m.working, m.saved)
}

// CanUndo reports whether Undo would succeed.
func (m *Machine) CanUndo() bool {
	return len(m.history) > 0
}

// UndoCount returns the number of entries in the undo history.
func (m *Machine) UndoCount() int {
	return len(m.history)
}

// Undo reverts the last gesture or bulk action.
func (m *Machine) Undo() (string, error) {
	if len(m.history) == 0 {
		return "", ErrNothingToUndo
	}
	m.painting = false
	entry := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.working = entry.marks
	return entry.description, nil
}

// Discard reverts the working state to the saved state.
func (m *Machine) Discard() {
	m.working = maps.Clone(m.saved)
	m.history = nil
	m.painting = false
}

// Commit makes the working state the saved state. Call it after a
// successful submit.
func (m *Machine) Commit() {
	m.saved = maps.Clone(m.working)
	m.history = nil
	m.painting = false
}

// Available returns the cells marked available, in grid order.
func (m *Machine) Available() []slot.Key {
	return m.collect(Available)
}

// Maybe returns the cells marked maybe, in grid order.
func (m *Machine) Maybe() []slot.Key {
	return m.collect(Maybe)
}

// Counts returns the number of available and maybe cells.
func (m *Machine) Counts() (available, maybe int) {
	for _, mk := range m.working {
		switch mk {
		case Available:
			available++
		case Maybe:
			maybe++
		}
	}
	return available, maybe
}

func (m *Machine) collect(mark Mark) []slot.Key {
	out := []slot.Key{}
	for k, mk := range m.working {
		if mk == mark {
			out = append(out, k)
		}
	}
	slot.Sort(out)
	return out
}

// pushHistory snapshots the working state before a modification.
func (m *Machine) pushHistory(description string) {
	if len(m.history) >= m.maxHistory {
		m.history = m.history[1:]
	}
	m.history = append(m.history, historyEntry{
		description: description,
		marks:       maps.Clone(m.working),
	})
}
