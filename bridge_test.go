package mcroute

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDependentMsgAliasesValue(t *testing.T) {
	r := NewReplyBuffers(result.Found, net.Buffers{[]byte("ba"), []byte("r")})
	r.SetFlags(30)
	r.SetCas(11)
	defer r.Close()

	out := msg.New()
	defer out.Release()

	err := r.WithDependentMsg(msg.OpGets, out, func(m *msg.Msg) error {
		assert.Equal(t, msg.OpGets, m.Op)
		assert.Equal(t, result.Found, m.Result)
		assert.Equal(t, "bar", string(m.Value))
		assert.EqualValues(t, 30, m.Flags)
		assert.EqualValues(t, 11, m.Cas)

		v := r.Value()
		assert.Same(t, &v[0], &m.Value[0])
		return nil
	})
	require.NoError(t, err)

	assert.Nil(t, out.Value)
	assert.EqualValues(t, 1, out.Refs())
}

func TestWithDependentMsgReturnsCallbackError(t *testing.T) {
	r := NewReply(result.Stored)
	boom := errors.New("boom")

	err := r.WithDependentMsg(msg.OpSet, msg.New(), func(*msg.Msg) error { return boom })
	assert.ErrorIs(t, err, boom)

	r.SetResult(result.NotStored)
}

func TestWithDependentMsgUnwindsOnPanic(t *testing.T) {
	r := NewReply(result.Found)

	assert.Panics(t, func() {
		_ = r.WithDependentMsg(msg.OpGet, msg.New(), func(*msg.Msg) error { panic("boom") })
	})
	assert.NotPanics(t, func() { r.SetValueString("x") })
}

func TestProjectionByOp(t *testing.T) {
	newReply := func(c result.Code) *Reply {
		r := NewReplyString(c, "v")
		r.SetLeaseToken(1)
		r.SetCas(2)
		r.SetDelta(3)
		r.SetExptime(4)
		return r
	}

	tests := []struct {
		op      msg.Op
		code    result.Code
		value   bool
		lease   uint64
		cas     uint64
		delta   uint64
		exptime uint32
	}{
		{op: msg.OpGet, code: result.Found, value: true},
		{op: msg.OpGets, code: result.Found, value: true, cas: 2},
		{op: msg.OpLeaseGet, code: result.NotFound, value: true, lease: 1},
		{op: msg.OpLeaseSet, code: result.Stored, lease: 1},
		{op: msg.OpMetaGet, code: result.Found, value: true, cas: 2, exptime: 4},
		{op: msg.OpSet, code: result.Stored},
		{op: msg.OpSet, code: result.LocalError, value: true},
		{op: msg.OpCas, code: result.Exists, cas: 2},
		{op: msg.OpIncr, code: result.Stored, value: true, delta: 3},
		{op: msg.OpTouch, code: result.Touched, exptime: 4},
		{op: msg.OpDelete, code: result.Deleted},
	}

	for _, tt := range tests {
		t.Run(tt.op.String()+"/"+tt.code.String(), func(t *testing.T) {
			r := newReply(tt.code)
			m := r.ReleasedMsg(tt.op)
			defer m.Release()

			assert.Equal(t, tt.op, m.Op)
			assert.Equal(t, tt.code, m.Result)
			if tt.value {
				assert.Equal(t, "v", string(m.Value))
			} else {
				assert.Nil(t, m.Value)
			}
			assert.Equal(t, tt.lease, m.LeaseID)
			assert.Equal(t, tt.cas, m.Cas)
			assert.Equal(t, tt.delta, m.Delta)
			assert.Equal(t, tt.exptime, m.Exptime)
		})
	}
}

func TestReleasedMsgSurvivesOwnedSource(t *testing.T) {
	r := NewReplyString(result.Found, "bar")
	r.SetIPAddress(netip.MustParseAddr("192.0.2.9"))

	m := r.ReleasedMsg(msg.OpGet)
	assert.Equal(t, result.Found, r.Result(), "source is unchanged")
	assert.Equal(t, "bar", string(r.Value()))

	r.Close()

	assert.Equal(t, "bar", string(m.Value))
	assert.EqualValues(t, 4, m.IPVersion())
	m.Release()
}

func TestReleasedMsgPinsBorrowedSource(t *testing.T) {
	wire := msg.New()
	wire.Result = result.Found
	wire.Value = []byte("bar")

	r := FromMsg(wire)
	wire.Release()

	m := r.ReleasedMsg(msg.OpGet)
	assert.Same(t, &wire.Value[0], &m.Value[0])
	r.Close()
	assert.EqualValues(t, 1, wire.Refs(), "pinned by the released message")

	assert.Equal(t, "bar", string(m.Value))
	m.Release()
	assert.Zero(t, wire.Refs())
}

func TestReleasedMsgFromPool(t *testing.T) {
	pool, err := msg.NewPool(1)
	require.NoError(t, err)
	defer pool.Close()

	r := NewReplyString(result.Found, "bar")
	defer r.Close()

	m, err := r.ReleasedMsgFrom(context.Background(), pool, msg.OpGet)
	require.NoError(t, err)
	assert.Equal(t, "bar", string(m.Value))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = r.ReleasedMsgFrom(ctx, pool, msg.OpGet)
	assert.Error(t, err)

	m.Release()
	m, err = r.ReleasedMsgFrom(context.Background(), pool, msg.OpGet)
	require.NoError(t, err)
	assert.Equal(t, "bar", string(m.Value))
	m.Release()
}
