// Package msg provides the reference-counted wire message exchanged between
// the protocol codec and the reply core.
//
// A Msg starts with one reference. Every holder that needs the message to
// outlive its caller takes its own reference with Ref and gives it back with
// Release. The message is freed when the last reference is released; using
// it afterwards is a programming error.
package msg

import (
	"net/netip"
	"strconv"
	"sync/atomic"

	"github.com/pior/mcroute/result"
	"github.com/rs/zerolog"
)

// Msg is a protocol message. Fields are plain data; the codec fills them and
// readers must not mutate a message they share with other holders.
type Msg struct {
	Op      Op
	Result  result.Code
	Key     []byte
	Value   []byte
	Flags   uint64
	Exptime uint32
	Number  uint32
	Delta   uint64
	LeaseID uint64
	Cas     uint64
	ErrCode uint32
	IP      netip.Addr

	refs   atomic.Int32
	pinned *Msg
	free   func(*Msg)
}

// New allocates a message holding a single reference.
func New() *Msg {
	m := &Msg{}
	m.refs.Store(1)
	return m
}

// Ref takes an additional reference and returns m.
func (m *Msg) Ref() *Msg {
	if m.refs.Add(1) <= 1 {
		panic("msg: Ref on a released message")
	}
	return m
}

// Release gives back one reference. The last release frees the message,
// releases any pinned backing message and returns pooled messages to their pool.
func (m *Msg) Release() {
	n := m.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("msg: Release on a released message")
	}

	if m.pinned != nil {
		m.pinned.Release()
		m.pinned = nil
	}
	if m.free != nil {
		m.free(m)
	}
}

// Refs returns the current reference count.
func (m *Msg) Refs() int32 {
	return m.refs.Load()
}

// Pin keeps backing alive until m is freed. It is used when m's fields
// alias memory owned by backing. A previous pin is released.
func (m *Msg) Pin(backing *Msg) {
	if backing != nil {
		backing.Ref()
	}
	if m.pinned != nil {
		m.pinned.Release()
	}
	m.pinned = backing
}

// IPVersion returns 4 or 6 for the attached address, or 0 when unset.
func (m *Msg) IPVersion() uint8 {
	switch {
	case !m.IP.IsValid():
		return 0
	case m.IP.Is4():
		return 4
	default:
		return 6
	}
}

func (m *Msg) SetIP(addr netip.Addr) {
	m.IP = addr
}

// Field returns the named field formatted as a string. Names follow the
// wire naming: op, result, key, value, flags, exptime, number, delta,
// lease_id, cas, err_code, ip and ipv.
func (m *Msg) Field(name string) (string, bool) {
	switch name {
	case "op":
		return m.Op.String(), true
	case "result":
		return m.Result.String(), true
	case "key":
		return string(m.Key), true
	case "value":
		return string(m.Value), true
	case "flags":
		return strconv.FormatUint(m.Flags, 10), true
	case "exptime":
		return strconv.FormatUint(uint64(m.Exptime), 10), true
	case "number":
		return strconv.FormatUint(uint64(m.Number), 10), true
	case "delta":
		return strconv.FormatUint(m.Delta, 10), true
	case "lease_id":
		return strconv.FormatUint(m.LeaseID, 10), true
	case "cas":
		return strconv.FormatUint(m.Cas, 10), true
	case "err_code":
		return strconv.FormatUint(uint64(m.ErrCode), 10), true
	case "ip":
		if !m.IP.IsValid() {
			return "", true
		}
		return m.IP.String(), true
	case "ipv":
		return strconv.Itoa(int(m.IPVersion())), true
	default:
		return "", false
	}
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (m *Msg) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer("op", m.Op).
		Stringer("result", m.Result).
		Int("value_len", len(m.Value))
	if len(m.Key) > 0 {
		e.Bytes("key", m.Key)
	}
	if m.Cas != 0 {
		e.Uint64("cas", m.Cas)
	}
	if m.LeaseID != 0 {
		e.Uint64("lease_id", m.LeaseID)
	}
	if m.IP.IsValid() {
		e.Str("ip", m.IP.String())
	}
}

func (m *Msg) reset() {
	free := m.free
	*m = Msg{}
	m.free = free
}
