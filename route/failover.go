package route

import (
	"context"

	"github.com/pior/mcroute"
)

// Failover sends to each destination in order until a reply is not a
// failover error. Replies that triggered a failover are closed. When every
// destination fails, the last reply is returned.
func Failover(ctx context.Context, dests []*mcroute.AccessPoint, fn SendFunc) *mcroute.Reply {
	if len(dests) == 0 {
		return mcroute.NewErrorReplyString("no destinations")
	}

	var r *mcroute.Reply
	for i, dest := range dests {
		if i > 0 {
			r.Close()
		}
		r = send(ctx, dest, fn)
		if !r.IsFailoverError() {
			break
		}
	}
	return r
}
