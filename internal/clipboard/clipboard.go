// Package clipboard copies share links for the user.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

var ErrClipboard = errors.New("could not copy the link")

type Clipboard interface {
	Write(text string) error
}

// System writes to the clipboard of the machine running the service.
type System struct{}

func (System) Write(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility available", ErrClipboard)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	return nil
}

// Memory keeps the last written text; used when the service runs headless.
type Memory struct {
	mu   sync.Mutex
	last string
}

func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = text
	return nil
}

func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Disabled always fails, for deployments where copying makes no sense.
type Disabled struct{}

func (Disabled) Write(string) error {
	return fmt.Errorf("%w: clipboard disabled", ErrClipboard)
}

func New(kind string) (Clipboard, error) {
	switch kind {
	case "system":
		return System{}, nil
	case "memory", "":
		return &Memory{}, nil
	case "none":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard %q", kind)
	}
}
