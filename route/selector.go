package route

import (
	"slices"

	"github.com/pior/mcroute"
	"github.com/pior/mcroute/internal/jumphash"
	"github.com/zeebo/xxh3"
)

// HashSelector picks a destination for a key with Jump Hash, so adding a
// destination only moves the keys that land on it.
type HashSelector struct {
	dests []*mcroute.AccessPoint
}

func NewHashSelector(dests ...*mcroute.AccessPoint) (*HashSelector, error) {
	if len(dests) == 0 {
		return nil, ErrNoDestinations
	}
	return &HashSelector{dests: slices.Clone(dests)}, nil
}

func (s *HashSelector) Select(key []byte) *mcroute.AccessPoint {
	return s.dests[jumphash.Hash(xxh3.Hash(key), len(s.dests))]
}

// Destinations returns the destinations in selection order.
func (s *HashSelector) Destinations() []*mcroute.AccessPoint {
	return slices.Clone(s.dests)
}
