package search

import "github.com/poiesic/docsearch/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterDocumentFilter(allowed []core.DocumentID)
	AfterQueryEmbedding(vector []float32, err error)
	AfterChannel(channel core.Channel, hits []*core.ChannelHit, err error)
	Finish(results []*core.FusedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                          {}
func (n *noopMonitor) AfterDocumentFilter(_ []core.DocumentID)                 {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32, _ error)                {}
func (n *noopMonitor) AfterChannel(_ core.Channel, _ []*core.ChannelHit, _ error) {}
func (n *noopMonitor) Finish(_ []*core.FusedResult)                            {}
