package mcroute

import (
	"bytes"
	"context"

	"github.com/pior/mcroute/msg"
)

// WithDependentMsg fills out with the fields of r relevant to op and calls
// fn. out's value aliases r's value, so out is only valid inside fn: r
// cannot be mutated, moved or closed until fn returns, and out's aliased
// fields are cleared afterwards. out's reference count is left untouched.
func (r *Reply) WithDependentMsg(op msg.Op, out *msg.Msg, fn func(*msg.Msg) error) error {
	value := r.Value()
	r.project(op, out, value)

	r.borrows++
	defer func() {
		r.borrows--
		out.Value = nil
	}()

	return fn(out)
}

// ReleasedMsg returns a new message for op that stays valid independently of
// r. An owned value is copied; a value borrowed from a wire message is shared
// by pinning that message. r is not modified.
func (r *Reply) ReleasedMsg(op msg.Op) *msg.Msg {
	m := msg.New()
	r.release(op, m)
	return m
}

// ReleasedMsgFrom is ReleasedMsg with the message taken from pool.
func (r *Reply) ReleasedMsgFrom(ctx context.Context, pool *msg.Pool, op msg.Op) (*msg.Msg, error) {
	m, err := pool.Get(ctx)
	if err != nil {
		return nil, err
	}
	r.release(op, m)
	return m, nil
}

func (r *Reply) release(op msg.Op, m *msg.Msg) {
	value := r.Value()
	r.project(op, m, value)
	if m.Value == nil {
		return
	}
	if r.value.src != nil {
		m.Pin(r.value.src)
	} else {
		m.Value = bytes.Clone(value)
	}
}

func (r *Reply) project(op msg.Op, out *msg.Msg, value []byte) {
	out.Op = op
	out.Result = r.result
	out.Flags = r.flags
	out.ErrCode = r.errCode
	out.Number = r.number
	out.Value = nil
	out.LeaseID = 0
	out.Cas = 0
	out.Delta = 0
	out.Exptime = 0

	if r.value.present && (op.CarriesValue() || r.IsError()) {
		out.Value = value
		if out.Value == nil {
			out.Value = []byte{}
		}
	}

	switch op {
	case msg.OpLeaseGet, msg.OpLeaseSet:
		out.LeaseID = r.leaseToken
	case msg.OpGets, msg.OpCas:
		out.Cas = r.cas
	case msg.OpMetaGet:
		out.Cas = r.cas
		out.Exptime = r.exptime
	case msg.OpTouch:
		out.Exptime = r.exptime
	}
	if op.IsArithmetic() {
		out.Delta = r.delta
	}

	out.IP = r.IPAddress()
}
