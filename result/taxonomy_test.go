package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var predicates = map[string]func(Code) bool{
	"IsError":          IsError,
	"IsFailoverError":  IsFailoverError,
	"IsSoftTkoError":   IsSoftTkoError,
	"IsHardTkoError":   IsHardTkoError,
	"IsTko":            IsTko,
	"IsLocalError":     IsLocalError,
	"IsConnectError":   IsConnectError,
	"IsConnectTimeout": IsConnectTimeout,
	"IsDataTimeout":    IsDataTimeout,
	"IsRedirect":       IsRedirect,
	"IsHit":            IsHit,
	"IsMiss":           IsMiss,
	"IsHotMiss":        IsHotMiss,
	"IsStored":         IsStored,
}

func TestPredicatesAreTotal(t *testing.T) {
	for name, pred := range predicates {
		for c := range 256 {
			assert.NotPanics(t, func() { pred(Code(c)) }, "%s(%d)", name, c)
		}
	}
}

func TestTkoImpliesError(t *testing.T) {
	for c := range 256 {
		code := Code(c)
		if IsTko(code) {
			assert.True(t, IsError(code), "%s is TKO but not an error", code)
		}
	}
}

func TestTkoErrorsAreFailoverErrors(t *testing.T) {
	for _, c := range Codes() {
		if IsSoftTkoError(c) || IsHardTkoError(c) || IsTko(c) {
			assert.True(t, IsFailoverError(c), "%s", c)
			assert.True(t, IsError(c), "%s", c)
		}
		if IsFailoverError(c) {
			assert.True(t, IsError(c), "%s", c)
		}
	}
}

func TestUnknownIsNotAnError(t *testing.T) {
	for name, pred := range predicates {
		assert.False(t, pred(Unknown), name)
	}
}

func TestOutOfRangeCodes(t *testing.T) {
	c := Code(200)
	assert.False(t, c.Valid())
	assert.False(t, IsError(c))
	assert.Equal(t, "code(200)", c.String())
}

func TestClassification(t *testing.T) {
	tests := []struct {
		code Code
		want []string
	}{
		{Stored, []string{"IsStored"}},
		{StaleStored, []string{"IsStored"}},
		{Found, []string{"IsHit"}},
		{Deleted, []string{"IsHit"}},
		{Touched, []string{"IsHit"}},
		{NotFound, []string{"IsMiss"}},
		{FoundStale, []string{"IsHotMiss"}},
		{NotFoundHot, []string{"IsHotMiss"}},
		{NotStored, nil},
		{Exists, nil},
		{OK, nil},
		{Waiting, nil},
		{OOO, []string{"IsError"}},
		{Timeout, []string{"IsError", "IsFailoverError", "IsSoftTkoError", "IsDataTimeout"}},
		{RemoteError, []string{"IsError", "IsFailoverError", "IsDataTimeout"}},
		{ConnectError, []string{"IsError", "IsFailoverError", "IsHardTkoError", "IsConnectError"}},
		{ConnectTimeout, []string{"IsError", "IsFailoverError", "IsHardTkoError", "IsConnectTimeout"}},
		{Shutdown, []string{"IsError", "IsFailoverError", "IsHardTkoError"}},
		{TKO, []string{"IsError", "IsFailoverError", "IsTko"}},
		{LocalError, []string{"IsError", "IsFailoverError", "IsLocalError"}},
		{Busy, []string{"IsError", "IsFailoverError", "IsRedirect"}},
		{TryAgain, []string{"IsError", "IsFailoverError", "IsRedirect"}},
		{BadKey, []string{"IsError"}},
		{ClientError, []string{"IsError"}},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			var got []string
			for _, name := range sortedPredicateNames() {
				if predicates[name](tt.code) {
					got = append(got, name)
				}
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func sortedPredicateNames() []string {
	return []string{
		"IsError", "IsFailoverError", "IsSoftTkoError", "IsHardTkoError", "IsTko",
		"IsLocalError", "IsConnectError", "IsConnectTimeout", "IsDataTimeout",
		"IsRedirect", "IsHit", "IsMiss", "IsHotMiss", "IsStored",
	}
}

func TestParseCode(t *testing.T) {
	for _, c := range Codes() {
		got, err := ParseCode(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCode("nope")
	var unknown *UnknownCodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}
