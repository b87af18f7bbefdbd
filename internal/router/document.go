package router

import "sync"

// DocumentState is the observable state recorded by a Document.
type DocumentState struct {
	Title       string
	Description string
	Meta        Meta
	Hash        string
	History     []string

	FragmentWrites int
	MetaWrites     int
	Scrolls        int
	SmoothScroll   bool
}

// Document is an in-memory Effects implementation. The HTTP layer uses it to render the
// outcome of a navigation; it also records every call so tests can assert on them.
type Document struct {
	mu sync.Mutex
	s  DocumentState
}

var _ Effects = (*Document)(nil)

// SetFragment implements Effects.
func (d *Document) SetFragment(fragment string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.s.Hash = fragment
	d.s.FragmentWrites++
}

// PushFragment implements Effects.
func (d *Document) PushFragment(fragment string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.s.Hash = fragment
	d.s.History = append(d.s.History, fragment)
}

// ScrollToTop implements Effects.
func (d *Document) ScrollToTop(smooth bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.s.Scrolls++
	d.s.SmoothScroll = smooth
}

// ApplyMeta implements Effects.
func (d *Document) ApplyMeta(meta Meta) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.s.Meta = meta
	d.s.Title = meta.Title
	d.s.Description = meta.Description
	d.s.MetaWrites++
}

// State returns a copy of the recorded state.
func (d *Document) State() DocumentState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.s
	st.History = append([]string(nil), d.s.History...)
	return st
}
