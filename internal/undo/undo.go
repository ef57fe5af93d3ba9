// Package undo keeps a short history of whole-canvas snapshots.
package undo

import (
	"errors"

	"github.com/Atorque/rickboard/internal/canvas"
)

// Capacity is the number of snapshots kept. Older ones are evicted.
const Capacity = 3

// ErrEmptyStack is returned by PopAndRestore when there is nothing to undo.
var ErrEmptyStack = errors.New("undo: empty stack")

// Snapshot is a full copy of the canvas as it was before an edit.
// The mode is kept with the pixels so undoing a mode toggle restores both.
type Snapshot struct {
	Mode canvas.Mode
	Pix  []byte
}

// Manager is a bounded stack of snapshots.
//
// Each snapshot is a full W*H*4 buffer, so buffers are recycled: an evicted
// buffer is reused for the new snapshot, and a restored-over buffer is kept
// as a spare for the next Push. A spare is only held while the stack has a
// free slot, so at most Capacity canvas-sized buffers are ever held.
//
// Manager is not safe for concurrent use; it belongs to the edit path.
type Manager struct {
	stack []Snapshot
	spare []byte
}

// New returns an empty manager.
func New() *Manager {
	return &Manager{stack: make([]Snapshot, 0, Capacity)}
}

// Len returns the number of snapshots held.
func (m *Manager) Len() int { return len(m.stack) }

// Push copies the current canvas onto the stack, evicting the oldest
// snapshot when the stack is full.
func (m *Manager) Push(s *canvas.Store) {
	buf := m.spare
	m.spare = nil
	if len(m.stack) == Capacity {
		if buf == nil {
			buf = m.stack[0].Pix
		}
		copy(m.stack, m.stack[1:])
		m.stack = m.stack[:Capacity-1]
	}
	m.stack = append(m.stack, Snapshot{Mode: s.Mode(), Pix: s.CopyTo(buf)})
}

// PopAndRestore replaces the live canvas with the most recent snapshot and
// removes it from the stack. The restore counts as a canvas mutation.
// On an empty stack it returns ErrEmptyStack and leaves s untouched.
func (m *Manager) PopAndRestore(s *canvas.Store) error {
	if len(m.stack) == 0 {
		return ErrEmptyStack
	}
	top := m.stack[len(m.stack)-1]
	old, err := s.Swap(top.Pix, top.Mode)
	if err != nil {
		return err
	}
	m.stack[len(m.stack)-1] = Snapshot{}
	m.stack = m.stack[:len(m.stack)-1]
	m.spare = old
	return nil
}

// retained returns the number of canvas-sized buffers held.
func (m *Manager) retained() int {
	n := len(m.stack)
	if m.spare != nil {
		n++
	}
	return n
}

// Reset drops all history.
func (m *Manager) Reset() {
	clear(m.stack)
	m.stack = m.stack[:0]
	m.spare = nil
}
