package msg

import (
	"bytes"
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/pior/mcroute/result"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefRelease(t *testing.T) {
	m := New()
	require.EqualValues(t, 1, m.Refs())

	m.Ref()
	require.EqualValues(t, 2, m.Refs())

	m.Release()
	m.Release()
	require.EqualValues(t, 0, m.Refs())

	assert.Panics(t, func() { m.Release() })
}

func TestRefOnReleasedPanics(t *testing.T) {
	m := New()
	m.Release()
	assert.Panics(t, func() { m.Ref() })
}

func TestPinKeepsBackingAlive(t *testing.T) {
	backing := New()
	backing.Value = []byte("payload")

	m := New()
	m.Value = backing.Value
	m.Pin(backing)
	require.EqualValues(t, 2, backing.Refs())

	backing.Release()
	require.EqualValues(t, 1, backing.Refs())
	assert.Equal(t, "payload", string(m.Value))

	m.Release()
	assert.EqualValues(t, 0, backing.Refs())
}

func TestPinReplacesPreviousPin(t *testing.T) {
	a, b := New(), New()
	m := New()

	m.Pin(a)
	m.Pin(b)
	assert.EqualValues(t, 1, a.Refs())
	assert.EqualValues(t, 2, b.Refs())

	m.Pin(nil)
	assert.EqualValues(t, 1, b.Refs())
}

func TestIPVersion(t *testing.T) {
	m := New()
	assert.Zero(t, m.IPVersion())

	m.SetIP(netip.MustParseAddr("10.0.0.1"))
	assert.EqualValues(t, 4, m.IPVersion())

	m.SetIP(netip.MustParseAddr("2001:db8::1"))
	assert.EqualValues(t, 6, m.IPVersion())
}

func TestField(t *testing.T) {
	m := New()
	m.Op = OpLeaseGet
	m.Result = result.Found
	m.Key = []byte("foo")
	m.Value = []byte("bar")
	m.Flags = 7
	m.LeaseID = 42
	m.Cas = 99
	m.SetIP(netip.MustParseAddr("127.0.0.1"))

	tests := map[string]string{
		"op":       "lease_get",
		"result":   "found",
		"key":      "foo",
		"value":    "bar",
		"flags":    "7",
		"lease_id": "42",
		"cas":      "99",
		"exptime":  "0",
		"ip":       "127.0.0.1",
		"ipv":      "4",
	}
	for name, want := range tests {
		got, ok := m.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := m.Field("bogus")
	assert.False(t, ok)
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	m := New()
	m.Op = OpGet
	m.Result = result.NotFound
	m.Key = []byte("k")
	logger.Info().Object("msg", m).Send()

	assert.Contains(t, buf.String(), `"op":"get"`)
	assert.Contains(t, buf.String(), `"result":"notfound"`)
	assert.Contains(t, buf.String(), `"key":"k"`)
}

func TestOpTraits(t *testing.T) {
	assert.True(t, OpGet.IsGetLike())
	assert.True(t, OpLeaseGet.CarriesValue())
	assert.True(t, OpSet.IsUpdateLike())
	assert.True(t, OpCas.IsUpdateLike())
	assert.True(t, OpDelete.IsDeleteLike())
	assert.True(t, OpIncr.IsArithmetic())
	assert.True(t, OpDecr.CarriesValue())
	assert.False(t, OpSet.CarriesValue())
	assert.False(t, OpTouch.IsUpdateLike())

	op, err := ParseOp("lease_set")
	require.NoError(t, err)
	assert.Equal(t, OpLeaseSet, op)

	_, err = ParseOp("frobnicate")
	assert.Error(t, err)
}

func TestPoolReusesMessages(t *testing.T) {
	p, err := NewPool(1)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()

	m, err := p.Get(ctx)
	require.NoError(t, err)
	m.Value = []byte("x")
	m.Result = result.Found

	ctxTimeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = p.Get(ctxTimeout)
	require.Error(t, err, "pool of one must be exhausted")

	m.Release()

	again, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, again.Value)
	assert.Equal(t, result.Unknown, again.Result)
	assert.EqualValues(t, 1, again.Refs())
	again.Release()

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Created)
	assert.EqualValues(t, 2, stats.AcquireCount)
	assert.EqualValues(t, 1, stats.AcquireErrors)
	assert.EqualValues(t, 0, stats.Acquired)
}

func TestPoolMessageReleasesPin(t *testing.T) {
	p, err := NewPool(2)
	require.NoError(t, err)
	defer p.Close()

	backing := New()
	m, err := p.Get(context.Background())
	require.NoError(t, err)
	m.Pin(backing)
	backing.Release()

	m.Release()
	assert.EqualValues(t, 0, backing.Refs())
}
