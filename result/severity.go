package result

import (
	"errors"
	"fmt"
)

var ErrEmptyRanking = errors.New("result: empty ranking")

// Ranking orders codes from least to most severe. Codes sharing a tier tie.
type Ranking [][]Code

// DefaultRanking is the severity order used by DefaultPolicy.
//
// Non-errors share the bottom tier so that reduction over successful
// replies keeps the first one. Destinations known to be unusable rank above
// exchanges that completed without success.
var DefaultRanking = Ranking{
	{
		Unknown, Deleted, Touched, Found, FoundStale, NotFound, NotFoundHot,
		NotStored, StaleStored, OK, Stored, Exists, Waiting,
	},
	{Busy, TryAgain},
	{OOO, Timeout, RemoteError},
	{
		BadCommand, BadKey, BadFlags, BadExptime, BadLeaseID, BadCasID,
		BadValue, Aborted, ClientError,
	},
	{Shutdown, ConnectTimeout, ConnectError, TKO},
	{LocalError},
}

// DefaultPolicy is built from DefaultRanking.
var DefaultPolicy = MustPolicy(DefaultRanking)

// Policy maps every code to a severity. The zero value is not usable;
// build one with NewPolicy.
type Policy struct {
	severity [numCodes]int
	ranking  Ranking
}

// RankingError describes why a ranking was rejected.
type RankingError struct {
	Code    Code
	Message string
}

func (e *RankingError) Error() string {
	return fmt.Sprintf("result: invalid ranking: %s: %s", e.Code, e.Message)
}

// NewPolicy validates r and builds a Policy from it.
//
// Every code must appear exactly once, and every error code must sit in a
// strictly higher tier than every non-error code.
func NewPolicy(r Ranking) (*Policy, error) {
	if len(r) == 0 {
		return nil, ErrEmptyRanking
	}

	p := &Policy{ranking: cloneRanking(r)}
	var seen [numCodes]bool

	for tier, codes := range r {
		for _, c := range codes {
			if !c.Valid() {
				return nil, &RankingError{Code: c, Message: "not a result code"}
			}
			if seen[c] {
				return nil, &RankingError{Code: c, Message: "listed more than once"}
			}
			seen[c] = true
			p.severity[c] = tier
		}
	}

	for i, ok := range seen {
		if !ok {
			return nil, &RankingError{Code: Code(i), Message: "missing"}
		}
	}

	highestNonError, lowestError := -1, len(r)
	for _, c := range Codes() {
		s := p.severity[c]
		if IsError(c) {
			lowestError = min(lowestError, s)
		} else {
			highestNonError = max(highestNonError, s)
		}
	}
	if lowestError <= highestNonError {
		for _, c := range Codes() {
			if IsError(c) && p.severity[c] == lowestError {
				return nil, &RankingError{Code: c, Message: "error ranked at or below a non-error"}
			}
		}
	}

	return p, nil
}

// MustPolicy is like NewPolicy but panics on an invalid ranking.
func MustPolicy(r Ranking) *Policy {
	p, err := NewPolicy(r)
	if err != nil {
		panic(err)
	}
	return p
}

// Severity returns the tier of c. Codes outside the enumeration rank as Unknown.
func (p *Policy) Severity(c Code) int {
	if !c.Valid() {
		c = Unknown
	}
	return p.severity[c]
}

// Worse reports whether a is strictly more severe than b.
func (p *Policy) Worse(a, b Code) bool {
	return p.Severity(a) > p.Severity(b)
}

// Ranking returns a copy of the tiers the policy was built from.
func (p *Policy) Ranking() Ranking {
	return cloneRanking(p.ranking)
}

func cloneRanking(r Ranking) Ranking {
	out := make(Ranking, len(r))
	for i, tier := range r {
		out[i] = append([]Code(nil), tier...)
	}
	return out
}
