package meta

import (
	"encoding/base64"

	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/result"
)

// ResultOf maps a reply to the result code it represents for op.
func ResultOf(op msg.Op, resp *Response) result.Code {
	if resp.Error != nil {
		return ResultFromError(resp.Error)
	}

	switch resp.Status {
	case StatusHD, StatusVA:
		return successResult(op, resp)
	case StatusEN, StatusNF:
		return result.NotFound
	case StatusNS:
		return result.NotStored
	case StatusEX:
		return result.Exists
	case StatusMN, StatusME:
		return result.OK
	default:
		return result.Unknown
	}
}

func successResult(op msg.Op, resp *Response) result.Code {
	switch {
	case op.IsGetLike():
		if resp.HasStaleFlag() {
			return result.FoundStale
		}
		if resp.HasAlreadyWonFlag() {
			return result.NotFoundHot
		}
		return result.Found
	case op.IsUpdateLike(), op.IsArithmetic():
		return result.Stored
	case op.IsDeleteLike():
		return result.Deleted
	case op == msg.OpTouch:
		return result.Touched
	default:
		return result.OK
	}
}

// ToMsg builds a message holding a single reference from a parsed reply.
// The message takes ownership of resp.Data.
func ToMsg(op msg.Op, resp *Response) *msg.Msg {
	m := msg.New()
	m.Op = op
	m.Result = ResultOf(op, resp)

	if resp.Error != nil {
		// A bare code name carries no diagnostic
		if text := errorMessage(resp.Error); text != m.Result.String() {
			m.Value = []byte(text)
		}
		return m
	}

	m.Value = resp.Data

	if token, ok := resp.Flags.Get(FlagReturnKey); ok {
		m.Key = decodeKey(token, resp.HasFlag(FlagBase64Key))
	}
	if v, ok := resp.Flags.GetUint64(FlagReturnClientFlags); ok {
		m.Flags = v
	}
	if v, ok := resp.Flags.GetUint64(FlagReturnCAS); ok {
		m.Cas = v
		if op == msg.OpLeaseGet && resp.HasWinFlag() {
			m.LeaseID = v
		}
	}
	// t-1 means no expiry and leaves Exptime at zero
	if v, ok := resp.Flags.GetUint64(FlagReturnTTL); ok && v <= 1<<32-1 {
		m.Exptime = uint32(v)
	}
	if v, ok := resp.Flags.GetUint64(FlagReturnLastAccess); ok && v <= 1<<32-1 {
		m.Number = uint32(v)
	}

	return m
}

// decodeKey copies a returned key, decoding it when the b flag is set. A key
// that is not valid base64 is kept as sent.
func decodeKey(token []byte, encoded bool) []byte {
	if encoded {
		if key, err := base64.StdEncoding.AppendDecode(nil, token); err == nil {
			return key
		}
	}
	return append([]byte(nil), token...)
}

func errorMessage(err error) string {
	switch e := err.(type) {
	case *ClientError:
		return e.Message
	case *ServerError:
		return e.Message
	default:
		return err.Error()
	}
}
