package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/evotodo/internal/api"
)

// Bridge is an api.Navigator that forwards to a running program. The
// client is built before the program exists, so calls made before Attach
// are held and replayed.
type Bridge struct {
	mu      sync.Mutex
	p       *tea.Program
	pending []api.Destination
}

func NewBridge() *Bridge { return &Bridge{} }

// Navigate must not be called from inside Update: Send blocks until the
// event loop reads the message.
func (b *Bridge) Navigate(d api.Destination) {
	b.mu.Lock()
	p := b.p
	if p == nil {
		b.pending = append(b.pending, d)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	p.Send(NavigateMsg{Dest: d})
}

func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.p = p
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, d := range pending {
		go p.Send(NavigateMsg{Dest: d})
	}
}

// Run starts the dashboard and blocks until it quits. It returns where the
// session sent the user, if anywhere.
func Run(ctx context.Context, opts Options) (api.Destination, error) {
	if opts.Session != nil {
		tok, err := opts.Session.Get()
		if err != nil {
			return "", err
		}
		if tok == nil {
			return "", ErrSignedOut
		}
	}

	return runProgram(ctx, opts, tea.WithAltScreen())
}

func runProgram(ctx context.Context, opts Options, extra ...tea.ProgramOption) (api.Destination, error) {
	p := tea.NewProgram(New(ctx, opts), append([]tea.ProgramOption{tea.WithContext(ctx)}, extra...)...)
	if b, ok := opts.Navigator.(*Bridge); ok {
		b.Attach(p)
	}
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(Model)
	if !ok {
		return "", nil
	}
	return fm.Dest(), nil
}
