package mcroute

import "github.com/pior/mcroute/result"

// Reduce returns the worst of the given replies under result.DefaultPolicy.
// Among equally severe replies the earliest one wins. The replies are not
// modified and ownership is not transferred.
func Reduce(first *Reply, rest ...*Reply) *Reply {
	return ReduceWith(result.DefaultPolicy, first, rest...)
}

// ReduceWith is Reduce with a custom severity policy.
func ReduceWith(p *result.Policy, first *Reply, rest ...*Reply) *Reply {
	worst := first
	for _, r := range rest {
		if p.Worse(r.result, worst.result) {
			worst = r
		}
	}
	return worst
}

// ReduceSlice is Reduce over a slice. It returns the index of the worst reply,
// or -1 if replies is empty.
func ReduceSlice(p *result.Policy, replies []*Reply) int {
	if len(replies) == 0 {
		return -1
	}
	worst := 0
	for i := 1; i < len(replies); i++ {
		if p.Worse(replies[i].result, replies[worst].result) {
			worst = i
		}
	}
	return worst
}

// WorseThan reports whether r is strictly more severe than other under
// result.DefaultPolicy.
func (r *Reply) WorseThan(other *Reply) bool {
	return result.DefaultPolicy.Worse(r.result, other.result)
}
