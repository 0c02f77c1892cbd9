// Package route provides the routing pieces built on top of replies:
// destination selection, TKO tracking, failover and all-sync fan-out with
// reply reduction.
package route

import (
	"context"
	"errors"

	"github.com/pior/mcroute"
	"github.com/pior/mcroute/result"
)

var ErrNoDestinations = errors.New("route: no destinations")

// SendFunc performs one operation against dest. Transport failures are
// reported as error replies; a nil reply is turned into a local error.
type SendFunc func(ctx context.Context, dest *mcroute.AccessPoint) *mcroute.Reply

// send calls fn and makes sure the reply is attributed to dest.
func send(ctx context.Context, dest *mcroute.AccessPoint, fn SendFunc) *mcroute.Reply {
	if ctx.Err() != nil {
		r := mcroute.NewReply(abortedResult(ctx))
		r.SetDestination(dest)
		return r
	}

	r := fn(ctx, dest)
	if r == nil {
		r = mcroute.NewErrorReplyf("no reply from %s", dest)
	}
	if r.Destination() == nil {
		r.SetDestination(dest)
	}
	return r
}

func abortedResult(ctx context.Context) result.Code {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result.Timeout
	}
	return result.Aborted
}
