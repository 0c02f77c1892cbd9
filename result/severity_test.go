package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyErrorsOutrankNonErrors(t *testing.T) {
	for _, a := range Codes() {
		for _, b := range Codes() {
			if IsError(a) && !IsError(b) {
				assert.True(t, DefaultPolicy.Worse(a, b), "%s should be worse than %s", a, b)
			}
		}
	}
}

func TestDefaultPolicyOrdering(t *testing.T) {
	p := DefaultPolicy

	// Unusable destinations outrank completed exchanges.
	for _, unusable := range []Code{TKO, ConnectError, ConnectTimeout} {
		for _, completed := range []Code{Timeout, RemoteError, Busy, TryAgain} {
			assert.True(t, p.Worse(unusable, completed), "%s vs %s", unusable, completed)
		}
	}

	assert.True(t, p.Worse(Timeout, Busy))
	assert.True(t, p.Worse(LocalError, TKO))

	// Non-errors tie.
	assert.False(t, p.Worse(NotFound, Found))
	assert.False(t, p.Worse(Found, NotFound))
	assert.Equal(t, p.Severity(Unknown), p.Severity(Stored))
}

func TestPolicySeverityOutOfRange(t *testing.T) {
	assert.Equal(t, DefaultPolicy.Severity(Unknown), DefaultPolicy.Severity(Code(250)))
}

func TestNewPolicyRejectsInvalidRankings(t *testing.T) {
	valid := DefaultPolicy.Ranking()

	t.Run("empty", func(t *testing.T) {
		_, err := NewPolicy(nil)
		require.ErrorIs(t, err, ErrEmptyRanking)
	})

	t.Run("missing code", func(t *testing.T) {
		r := valid[:len(valid)-1]
		_, err := NewPolicy(r)
		var rerr *RankingError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, LocalError, rerr.Code)
		assert.Equal(t, "missing", rerr.Message)
	})

	t.Run("duplicate code", func(t *testing.T) {
		r := append(DefaultPolicy.Ranking(), []Code{TKO})
		_, err := NewPolicy(r)
		var rerr *RankingError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, TKO, rerr.Code)
	})

	t.Run("invalid code", func(t *testing.T) {
		r := append(DefaultPolicy.Ranking(), []Code{Code(99)})
		_, err := NewPolicy(r)
		var rerr *RankingError
		require.ErrorAs(t, err, &rerr)
	})

	t.Run("error below non-error", func(t *testing.T) {
		r := Ranking{{Busy}}
		for _, c := range Codes() {
			if c != Busy {
				r[0] = append(r[0], c)
			}
		}
		_, err := NewPolicy(r)
		var rerr *RankingError
		require.ErrorAs(t, err, &rerr)
		assert.True(t, IsError(rerr.Code))
	})
}

func TestPolicyRankingIsACopy(t *testing.T) {
	r := DefaultPolicy.Ranking()
	r[0][0] = TKO
	assert.Equal(t, Unknown, DefaultPolicy.Ranking()[0][0])
}

func BenchmarkPolicyWorse(b *testing.B) {
	var worse bool
	for b.Loop() {
		worse = DefaultPolicy.Worse(Timeout, Found)
	}
	_ = worse
}
