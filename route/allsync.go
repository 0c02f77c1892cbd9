package route

import (
	"context"

	"github.com/pior/mcroute"
	"github.com/pior/mcroute/result"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AllSync sends to every destination concurrently and returns the worst
// reply under result.DefaultPolicy. The other replies are closed.
func AllSync(ctx context.Context, dests []*mcroute.AccessPoint, fn SendFunc) *mcroute.Reply {
	return (&AllSyncRoute{}).Route(ctx, dests, fn)
}

// AllSyncRoute is AllSync with a custom severity policy and a bound on the
// number of concurrent sends.
type AllSyncRoute struct {
	Policy      *result.Policy // nil means result.DefaultPolicy
	MaxParallel int            // zero or less means unbounded
	Logger      zerolog.Logger
}

func (a *AllSyncRoute) Route(ctx context.Context, dests []*mcroute.AccessPoint, fn SendFunc) *mcroute.Reply {
	if len(dests) == 0 {
		return mcroute.NewErrorReplyString("no destinations")
	}

	policy := a.Policy
	if policy == nil {
		policy = result.DefaultPolicy
	}

	replies := make([]*mcroute.Reply, len(dests))

	var g errgroup.Group
	if a.MaxParallel > 0 {
		g.SetLimit(a.MaxParallel)
	}
	for i, dest := range dests {
		g.Go(func() error {
			replies[i] = send(ctx, dest, fn)
			return nil
		})
	}
	_ = g.Wait()

	worst := mcroute.ReduceSlice(policy, replies)
	for i, r := range replies {
		if i != worst {
			r.Close()
		}
	}

	if replies[worst].IsError() {
		a.Logger.Debug().
			Int("destinations", len(dests)).
			Object("reply", replies[worst]).
			Msg("all-sync reduced to an error")
	}
	return replies[worst]
}
