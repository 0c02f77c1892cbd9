package mcroute

import (
	"bytes"
	"fmt"
	"net"

	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/result"
)

// NewReply returns a reply with the given result and no value.
func NewReply(c result.Code) *Reply {
	return &Reply{result: c}
}

// DefaultReply returns the success classified reply for op, without a value:
// stored for updates, deleted for deletes, touched for touch, not found for
// reads and arithmetic, and ok for anything else.
func DefaultReply(op msg.Op) *Reply {
	return NewReply(defaultResult(op))
}

func defaultResult(op msg.Op) result.Code {
	switch {
	case op.IsUpdateLike():
		return result.Stored
	case op.IsDeleteLike():
		return result.Deleted
	case op == msg.OpTouch:
		return result.Touched
	case op.IsGetLike(), op.IsArithmetic():
		return result.NotFound
	default:
		return result.OK
	}
}

// NewErrorReply returns a local error reply without a diagnostic.
func NewErrorReply() *Reply {
	return NewReply(result.LocalError)
}

// NewErrorReplyString returns a local error reply carrying text as its
// diagnostic.
func NewErrorReplyString(text string) *Reply {
	r := NewErrorReply()
	r.value = ownedPayload(net.Buffers{[]byte(text)})
	return r
}

// NewErrorReplyf returns a local error reply carrying a formatted diagnostic
// as its value.
func NewErrorReplyf(format string, args ...any) *Reply {
	r := NewErrorReply()
	r.value = ownedPayload(net.Buffers{fmt.Appendf(nil, format, args...)})
	return r
}

// NewTkoReply returns a reply signaling that the destination is marked
// unusable.
func NewTkoReply() *Reply {
	return NewReply(result.TKO)
}

// NewReplyValue returns a reply holding a copy of b.
func NewReplyValue(c result.Code, b []byte) *Reply {
	r := NewReply(c)
	r.value = ownedPayload(net.Buffers{bytes.Clone(b)})
	return r
}

// NewReplyString returns a reply holding s.
func NewReplyString(c result.Code, s string) *Reply {
	r := NewReply(c)
	r.value = ownedPayload(net.Buffers{[]byte(s)})
	return r
}

// NewReplyBuffers returns a reply that takes ownership of bufs.
func NewReplyBuffers(c result.Code, bufs net.Buffers) *Reply {
	r := NewReply(c)
	r.value = ownedPayload(bufs)
	return r
}

// NewReplyMsg returns a reply whose value aliases m's value without copying.
// The reply holds a reference on m until it is closed or its value replaced.
// Only the value is taken from m; see FromMsg for a full conversion.
func NewReplyMsg(c result.Code, m *msg.Msg) *Reply {
	r := NewReply(c)
	r.value = borrowedPayload(m)
	return r
}

// FromMsg builds a reply from a decoded wire message: result, value and
// scalar fields are taken from m, and m stays attached so the reply can
// report its IP address. The value is borrowed.
func FromMsg(m *msg.Msg) *Reply {
	r := NewReplyMsg(m.Result, m)
	r.flags = m.Flags
	r.leaseToken = m.LeaseID
	r.delta = m.Delta
	r.cas = m.Cas
	r.errCode = m.ErrCode
	r.number = m.Number
	r.exptime = m.Exptime
	r.attach(m)
	return r
}
