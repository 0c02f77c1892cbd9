package mcroute

import (
	"bytes"
	"fmt"
	"net"
	"net/netip"

	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/result"
	"github.com/rs/zerolog"
)

// noCopy makes go vet report copies of the containing struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Reply is the outcome of a single operation: a result code, an optional
// value, the destination that produced it and protocol specific fields.
//
// A Reply has a single owner at a time and is always handled by pointer.
// Hand it over with Move and release it with Close, which fires the cleanup
// hook. Replies are not safe for concurrent use.
type Reply struct {
	_ noCopy

	result      result.Code
	value       payload
	msg         *msg.Msg
	destination *AccessPoint

	flags      uint64
	leaseToken uint64
	delta      uint64
	cas        uint64
	errCode    uint32
	number     uint32
	exptime    uint32

	cleanup func()
	borrows int
	closed  bool
}

func (r *Reply) Result() result.Code {
	return r.result
}

func (r *Reply) SetResult(c result.Code) {
	r.mutate()
	r.result = c
}

func (r *Reply) IsError() bool          { return result.IsError(r.result) }
func (r *Reply) IsFailoverError() bool  { return result.IsFailoverError(r.result) }
func (r *Reply) IsSoftTkoError() bool   { return result.IsSoftTkoError(r.result) }
func (r *Reply) IsHardTkoError() bool   { return result.IsHardTkoError(r.result) }
func (r *Reply) IsTko() bool            { return result.IsTko(r.result) }
func (r *Reply) IsLocalError() bool     { return result.IsLocalError(r.result) }
func (r *Reply) IsConnectError() bool   { return result.IsConnectError(r.result) }
func (r *Reply) IsConnectTimeout() bool { return result.IsConnectTimeout(r.result) }
func (r *Reply) IsDataTimeout() bool    { return result.IsDataTimeout(r.result) }
func (r *Reply) IsRedirect() bool       { return result.IsRedirect(r.result) }
func (r *Reply) IsHit() bool            { return result.IsHit(r.result) }
func (r *Reply) IsMiss() bool           { return result.IsMiss(r.result) }
func (r *Reply) IsHotMiss() bool        { return result.IsHotMiss(r.result) }
func (r *Reply) IsStored() bool         { return result.IsStored(r.result) }

// HasValue reports whether a value was set, possibly an empty one.
func (r *Reply) HasValue() bool {
	return r.value.present
}

// Value returns the value as one contiguous slice, coalescing fragments if
// needed. It returns nil when no value is set. The slice must not be modified.
func (r *Reply) Value() []byte {
	// A borrowed reply was coalesced by WithDependentMsg, so this never
	// rewrites the chain under a dependent message.
	return r.value.contiguous()
}

// Fragments returns the value without coalescing it. The returned buffers
// must not be modified.
func (r *Reply) Fragments() net.Buffers {
	return r.value.fragments()
}

// ValueSize returns the value length in bytes.
func (r *Reply) ValueSize() int {
	return r.value.size()
}

// SetValue replaces the value with a copy of b.
func (r *Reply) SetValue(b []byte) {
	r.SetValueBuffers(net.Buffers{bytes.Clone(b)})
}

// SetValueString replaces the value with s.
func (r *Reply) SetValueString(s string) {
	r.SetValueBuffers(net.Buffers{[]byte(s)})
}

// SetValueBuffers replaces the value with bufs. The reply takes ownership of
// the fragments; the caller must not modify them afterwards.
func (r *Reply) SetValueBuffers(bufs net.Buffers) {
	r.mutate()
	r.value.release()
	r.value = ownedPayload(bufs)
}

// ClearValue drops the value.
func (r *Reply) ClearValue() {
	r.mutate()
	r.value.release()
}

// Destination returns the endpoint that produced the reply, if known.
func (r *Reply) Destination() *AccessPoint {
	return r.destination
}

func (r *Reply) SetDestination(ap *AccessPoint) {
	r.mutate()
	r.destination = ap
}

func (r *Reply) Flags() uint64 { return r.flags }

func (r *Reply) SetFlags(flags uint64) {
	r.mutate()
	r.flags = flags
}

func (r *Reply) LeaseToken() uint64 { return r.leaseToken }

func (r *Reply) SetLeaseToken(token uint64) {
	r.mutate()
	r.leaseToken = token
}

func (r *Reply) Delta() uint64 { return r.delta }

func (r *Reply) SetDelta(delta uint64) {
	r.mutate()
	r.delta = delta
}

func (r *Reply) Cas() uint64 { return r.cas }

func (r *Reply) SetCas(cas uint64) {
	r.mutate()
	r.cas = cas
}

func (r *Reply) AppSpecificErrorCode() uint32 { return r.errCode }

func (r *Reply) SetAppSpecificErrorCode(code uint32) {
	r.mutate()
	r.errCode = code
}

func (r *Reply) Number() uint32 { return r.number }

func (r *Reply) SetNumber(n uint32) {
	r.mutate()
	r.number = n
}

func (r *Reply) Exptime() uint32 { return r.exptime }

func (r *Reply) SetExptime(exptime uint32) {
	r.mutate()
	r.exptime = exptime
}

// IPVersion returns the IP version of the attached message, or 0.
func (r *Reply) IPVersion() uint8 {
	if r.msg == nil {
		return 0
	}
	return r.msg.IPVersion()
}

// IPAddress returns the address of the attached message, or the zero Addr.
func (r *Reply) IPAddress() netip.Addr {
	if r.msg == nil {
		return netip.Addr{}
	}
	return r.msg.IP
}

// SetIPAddress attaches a new message holding only addr, replacing any
// attached message.
func (r *Reply) SetIPAddress(addr netip.Addr) {
	r.mutate()
	m := msg.New()
	m.SetIP(addr)
	r.attach(m)
	m.Release()
}

// AttachCleanup registers fn to run exactly once when the reply is closed.
// Attaching a second hook, or a hook to a closed or moved-from reply, is a
// programming error and panics.
func (r *Reply) AttachCleanup(fn func()) {
	if r.closed {
		panic("mcroute: cleanup hook attached to a closed reply")
	}
	if r.cleanup != nil {
		panic("mcroute: cleanup hook already attached")
	}
	r.cleanup = fn
}

// Close releases the message references held by the reply and runs the
// cleanup hook. Calling Close more than once has no effect.
func (r *Reply) Close() {
	if r.borrows > 0 {
		panic("mcroute: Close on a reply with an outstanding dependent message")
	}
	if r.closed {
		return
	}
	r.closed = true

	r.value.release()
	r.attach(nil)

	if fn := r.cleanup; fn != nil {
		r.cleanup = nil
		fn()
	}
}

// Move transfers the reply, including its cleanup hook, to a new Reply.
// r is left closed and empty.
func (r *Reply) Move() *Reply {
	if r.borrows > 0 {
		panic("mcroute: Move on a reply with an outstanding dependent message")
	}

	n := &Reply{
		result:      r.result,
		value:       r.value,
		msg:         r.msg,
		destination: r.destination,
		flags:       r.flags,
		leaseToken:  r.leaseToken,
		delta:       r.delta,
		cas:         r.cas,
		errCode:     r.errCode,
		number:      r.number,
		exptime:     r.exptime,
		cleanup:     r.cleanup,
		closed:      r.closed,
	}

	r.result = result.Unknown
	r.value = payload{}
	r.msg = nil
	r.destination = nil
	r.flags, r.leaseToken, r.delta, r.cas = 0, 0, 0, 0
	r.errCode, r.number, r.exptime = 0, 0, 0
	r.cleanup = nil
	r.closed = true

	return n
}

// attach replaces the attached message, taking a reference on m.
func (r *Reply) attach(m *msg.Msg) {
	if m != nil {
		m.Ref()
	}
	if r.msg != nil {
		r.msg.Release()
	}
	r.msg = m
}

func (r *Reply) mutate() {
	if r.borrows > 0 {
		panic("mcroute: reply mutated while a dependent message is outstanding")
	}
}

func (r *Reply) String() string {
	s := r.result.String()
	if r.value.present {
		s += fmt.Sprintf(" value_len=%d", r.value.size())
	}
	if r.destination != nil {
		s += " dest=" + r.destination.String()
	}
	return s
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (r *Reply) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer("result", r.result)
	if r.value.present {
		e.Int("value_len", r.value.size())
	}
	if r.destination != nil {
		e.Stringer("destination", r.destination)
	}
	if r.errCode != 0 {
		e.Uint32("app_error", r.errCode)
	}
}
