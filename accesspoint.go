package mcroute

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

var ErrInvalidAccessPoint = errors.New("mcroute: invalid access point")

// Protocol is the wire protocol spoken by a destination.
type Protocol uint8

const (
	ProtocolASCII Protocol = iota
	ProtocolMeta
)

func (p Protocol) String() string {
	switch p {
	case ProtocolASCII:
		return "ascii"
	case ProtocolMeta:
		return "meta"
	default:
		return "protocol(" + strconv.Itoa(int(p)) + ")"
	}
}

func parseProtocol(s string) (Protocol, bool) {
	switch s {
	case "ascii":
		return ProtocolASCII, true
	case "meta":
		return ProtocolMeta, true
	default:
		return 0, false
	}
}

// AccessPoint describes a destination. It is immutable and may be shared by
// any number of replies.
type AccessPoint struct {
	host     string
	port     uint16
	protocol Protocol
	addr     string
	hash     uint64
}

func NewAccessPoint(host string, port uint16, protocol Protocol) *AccessPoint {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	return &AccessPoint{
		host:     host,
		port:     port,
		protocol: protocol,
		addr:     addr,
		hash:     xxh3.HashString(addr + ":" + protocol.String()),
	}
}

// ParseAccessPoint parses "host:port" or "host:port:protocol". IPv6 hosts
// must be bracketed. The protocol defaults to ascii.
func ParseAccessPoint(s string) (*AccessPoint, error) {
	protocol := ProtocolASCII
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		if p, ok := parseProtocol(s[i+1:]); ok {
			protocol = p
			s = s[:i]
		}
	}

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidAccessPoint, s, err)
	}
	if host == "" {
		return nil, fmt.Errorf("%w %q: missing host", ErrInvalidAccessPoint, s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w %q: bad port", ErrInvalidAccessPoint, s)
	}

	return NewAccessPoint(host, uint16(port), protocol), nil
}

func (ap *AccessPoint) Host() string       { return ap.host }
func (ap *AccessPoint) Port() uint16       { return ap.port }
func (ap *AccessPoint) Protocol() Protocol { return ap.protocol }
func (ap *AccessPoint) Addr() string       { return ap.addr }

// Hash identifies the access point for sharding and breaker bookkeeping.
func (ap *AccessPoint) Hash() uint64 { return ap.hash }

func (ap *AccessPoint) String() string {
	return ap.addr + ":" + ap.protocol.String()
}
