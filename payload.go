package mcroute

import (
	"net"
	"slices"

	"github.com/pior/mcroute/msg"
)

// payload is a reply value. It is either owned by the reply or borrowed
// from a message, in which case src holds a reference that keeps the
// fragments alive.
type payload struct {
	chain   net.Buffers
	present bool
	src     *msg.Msg
}

func ownedPayload(chain net.Buffers) payload {
	return payload{chain: chain, present: true}
}

func borrowedPayload(m *msg.Msg) payload {
	if m.Value == nil {
		return payload{}
	}
	return payload{chain: net.Buffers{m.Value}, present: true, src: m.Ref()}
}

func (p *payload) fragments() net.Buffers {
	if !p.present {
		return nil
	}
	return slices.Clone(p.chain)
}

// contiguous coalesces the fragments into one slice. A borrowed payload
// with several fragments becomes owned.
func (p *payload) contiguous() []byte {
	if !p.present {
		return nil
	}
	switch len(p.chain) {
	case 0:
		return []byte{}
	case 1:
		return p.chain[0]
	}

	var n int
	for _, b := range p.chain {
		n += len(b)
	}
	joined := make([]byte, 0, n)
	for _, b := range p.chain {
		joined = append(joined, b...)
	}

	p.release()
	*p = ownedPayload(net.Buffers{joined})
	return joined
}

func (p *payload) size() int {
	var n int
	for _, b := range p.chain {
		n += len(b)
	}
	return n
}

func (p *payload) release() {
	if p.src != nil {
		p.src.Release()
	}
	*p = payload{}
}
