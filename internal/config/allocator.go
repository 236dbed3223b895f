package config

import "github.com/quillaja/remapd/internal/keycode"

// Allocator assigns custom codes (spec.md §4.1) to identifiers that are
// neither a kernel key name nor a shifted-key alias. One Allocator is
// created per call to Load and threaded through that document's decode;
// it does not survive as a package-level singleton, so two configurations
// loaded independently (e.g. in parallel tests) never collide.
type Allocator struct {
	custom map[string]keycode.Code
	next   keycode.Code
}

// NewAllocator returns an Allocator with the custom range starting at
// keycode.CustomBase.
func NewAllocator() *Allocator {
	return &Allocator{
		custom: make(map[string]keycode.Code),
		next:   keycode.CustomBase,
	}
}

// Resolve returns the Code for token: a kernel key name, a shifted alias,
// a previously-seen custom identifier, or a freshly allocated custom code.
// Allocation order is stable within a single Allocator because tokens are
// resolved in document order during Load.
func (a *Allocator) Resolve(token string) keycode.Code {
	if code, ok := lookupKernelOrShifted(token); ok {
		return code
	}
	if code, ok := a.custom[token]; ok {
		return code
	}
	code := a.next
	a.custom[token] = code
	a.next++
	return code
}
