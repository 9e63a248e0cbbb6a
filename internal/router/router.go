// Package router keeps the stack of screens and turns navigation
// messages into stack operations.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syntaxiz/internal/screen"
)

// Navigation messages. Screens return them from commands; only the router
// acts on them.
type (
	PushScreenMsg struct{ Screen screen.Screen }
	PopScreenMsg  struct{}

	// ReplaceScreenMsg swaps the top screen, so going back skips it. A
	// finished quiz is replaced by its summary this way.
	ReplaceScreenMsg struct{ Screen screen.Screen }
)

// Router is a stack of screens; the top one is active. The stack is
// never empty.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Push makes s active and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop drops the active screen unless it is the root. The revealed screen
// is resumed when it implements screen.Resumer.
func (r *Router) Pop() tea.Cmd {
	if r.top() == 0 {
		return nil
	}
	r.stack[r.top()] = nil
	r.stack = r.stack[:r.top()]
	if rs, ok := r.Active().(screen.Resumer); ok {
		return rs.Resume()
	}
	return nil
}

// Replace swaps the active screen for s and runs its Init.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

func (r *Router) Active() screen.Screen { return r.stack[r.top()] }

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}
	next, cmd := r.Active().Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
