package mcroute

import (
	"testing"

	"github.com/pior/mcroute/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replies(codes ...result.Code) []*Reply {
	out := make([]*Reply, len(codes))
	for i, c := range codes {
		out[i] = NewReply(c)
	}
	return out
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name  string
		codes []result.Code
		want  int
	}{
		{"single", []result.Code{result.NotFound}, 0},
		{"tko wins", []result.Code{result.Stored, result.NotFound, result.TKO}, 2},
		{"first hit", []result.Code{result.Found, result.Found, result.NotFound}, 0},
		{"error beats success", []result.Code{result.Found, result.Busy}, 1},
		{"connect error beats timeout", []result.Code{result.Timeout, result.ConnectError}, 1},
		{"timeout beats redirect", []result.Code{result.TryAgain, result.Timeout}, 1},
		{"ties keep first error", []result.Code{result.Timeout, result.RemoteError}, 0},
		{"local error is worst", []result.Code{result.TKO, result.LocalError, result.Shutdown}, 1},
		{"unknown is not an error", []result.Code{result.Unknown, result.ClientError}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := replies(tt.codes...)

			got := Reduce(rs[0], rs[1:]...)
			assert.Same(t, rs[tt.want], got)
			assert.Equal(t, tt.want, ReduceSlice(result.DefaultPolicy, rs))
		})
	}
}

func TestReduceIsDeterministic(t *testing.T) {
	rs := replies(result.Stored, result.Timeout, result.NotFound, result.Busy, result.Timeout)
	first := Reduce(rs[0], rs[1:]...)
	for range 10 {
		assert.Same(t, first, Reduce(rs[0], rs[1:]...))
	}
	assert.Same(t, rs[1], first)
}

func TestReduceDoesNotTouchReplies(t *testing.T) {
	rs := replies(result.Found, result.TKO)
	rs[0].SetValueString("bar")

	Reduce(rs[0], rs[1:]...)
	assert.Equal(t, "bar", string(rs[0].Value()))
	assert.Equal(t, result.Found, rs[0].Result())
}

func TestReduceWithPolicy(t *testing.T) {
	// Redirects ranked above destination failures.
	ranking := result.DefaultPolicy.Ranking()
	ranking[1], ranking[4] = ranking[4], ranking[1]
	p, err := result.NewPolicy(ranking)
	require.NoError(t, err)

	rs := replies(result.TKO, result.Busy)
	assert.Same(t, rs[1], ReduceWith(p, rs[0], rs[1:]...))
	assert.Same(t, rs[0], Reduce(rs[0], rs[1:]...))
}

func TestReduceSliceEmpty(t *testing.T) {
	assert.Equal(t, -1, ReduceSlice(result.DefaultPolicy, nil))
}

func TestWorseThan(t *testing.T) {
	assert.True(t, NewTkoReply().WorseThan(NewReply(result.Found)))
	assert.False(t, NewReply(result.Found).WorseThan(NewReply(result.NotFound)))
	assert.False(t, NewReply(result.Timeout).WorseThan(NewReply(result.RemoteError)))
}
