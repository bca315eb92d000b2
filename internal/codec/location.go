package codec

import "strings"

// FragmentLocation is a Location for a fragment reported by the client.
// Cleared tells the client to drop the fragment from its address bar.
type FragmentLocation struct {
	fragment string
	cleared  bool
}

func NewFragmentLocation(fragment string) *FragmentLocation {
	return &FragmentLocation{fragment: fragment}
}

// FromURL takes the part of rawURL after the first '#'. Input without a
// '#' is a bare fragment unless it is a URL.
func FromURL(rawURL string) *FragmentLocation {
	_, fragment, found := strings.Cut(rawURL, "#")
	if !found && !strings.Contains(rawURL, "://") {
		fragment = rawURL
	}
	return NewFragmentLocation(fragment)
}

func (l *FragmentLocation) Fragment() string {
	return l.fragment
}

func (l *FragmentLocation) ClearFragment() {
	l.fragment = ""
	l.cleared = true
}

func (l *FragmentLocation) Cleared() bool {
	return l.cleared
}
