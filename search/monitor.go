package search

import "github.com/poiesic/ontonote/core"

// Monitor provides hooks to observe the stages of a combined query.
// Implement this interface to track intermediate result sets during search.
type Monitor interface {
	Start(filter core.SearchFilter)
	AfterTagExpansion(labels map[string]bool)
	AfterTagFilter(notes []*core.Note)
	AfterTextFilter(notes []*core.Note)
	Finish(results []*core.Note)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.SearchFilter)          {}
func (n *noopMonitor) AfterTagExpansion(_ map[string]bool) {}
func (n *noopMonitor) AfterTagFilter(_ []*core.Note)       {}
func (n *noopMonitor) AfterTextFilter(_ []*core.Note)      {}
func (n *noopMonitor) Finish(_ []*core.Note)               {}
