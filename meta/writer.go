package meta

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"strconv"
	"sync"

	"github.com/pior/mcroute/msg"
	"github.com/pior/mcroute/result"
)

// Buffer pool for building replies
var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	// Large values would pin memory in the pool
	if buf.Cap() > 64*1024 {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// WriteResponse serializes m as a meta reply and writes it to w.
//
// Error results are written as CLIENT_ERROR (rejected requests) or
// SERVER_ERROR, carrying the message value or the result name.
// Success results with a value are written as VA, other successes as HD.
func WriteResponse(w io.Writer, m *msg.Msg) error {
	if bw, ok := w.(*bufio.Writer); ok {
		appendResponse(bw, m)
		return bw.Flush()
	}

	buf := getBuffer()
	defer putBuffer(buf)

	appendResponse(buf, m)
	_, err := w.Write(buf.Bytes())
	return err
}

type responseWriter interface {
	io.Writer
	io.StringWriter
}

func appendResponse(w responseWriter, m *msg.Msg) {
	if result.IsError(m.Result) {
		prefix := ErrorServerPrefix
		if isRejectedRequest(m.Result) {
			prefix = ErrorClientPrefix
		}
		text := m.Result.String()
		if len(m.Value) > 0 {
			text = string(m.Value)
		}
		w.WriteString(prefix)
		w.WriteString(Space)
		w.WriteString(text)
		w.WriteString(CRLF)
		return
	}

	var flags Flags
	if m.Flags != 0 {
		flags.AddUint64(FlagReturnClientFlags, m.Flags)
	}
	switch {
	case m.Cas != 0:
		flags.AddUint64(FlagReturnCAS, m.Cas)
	case m.LeaseID != 0:
		flags.AddUint64(FlagReturnCAS, m.LeaseID)
	}
	if m.Exptime != 0 {
		flags.AddUint64(FlagReturnTTL, uint64(m.Exptime))
	}
	if m.Number != 0 {
		flags.AddUint64(FlagReturnLastAccess, uint64(m.Number))
	}
	if len(m.Key) > 0 {
		appendKey(&flags, m.Key)
	}
	if m.LeaseID != 0 {
		flags.Add(FlagWin)
	}

	switch m.Result {
	case result.Found, result.FoundStale, result.Stored, result.StaleStored,
		result.Deleted, result.Touched, result.OK:
		if m.Result == result.FoundStale {
			flags.Add(FlagStale)
		}
		writeSuccess(w, m, flags)
	case result.NotFoundHot:
		// Only reads can carry the already-won flag
		if !m.Op.IsGetLike() {
			writeStatus(w, StatusNF, nil)
			return
		}
		flags.Add(FlagAlreadyWon)
		writeSuccess(w, m, flags)
	case result.NotFound:
		if m.Op.IsGetLike() {
			writeStatus(w, StatusEN, nil)
		} else {
			writeStatus(w, StatusNF, nil)
		}
	case result.NotStored:
		writeStatus(w, StatusNS, nil)
	case result.Exists:
		writeStatus(w, StatusEX, nil)
	default:
		w.WriteString(ErrorServerPrefix)
		w.WriteString(Space)
		w.WriteString("unexpected result ")
		w.WriteString(m.Result.String())
		w.WriteString(CRLF)
	}
}

func writeSuccess(w responseWriter, m *msg.Msg, flags Flags) {
	if m.Value == nil || !m.Op.CarriesValue() {
		writeStatus(w, StatusHD, flags)
		return
	}
	w.WriteString(string(StatusVA))
	w.WriteString(Space)
	w.WriteString(strconv.Itoa(len(m.Value)))
	w.Write(flags)
	w.WriteString(CRLF)
	w.Write(m.Value)
	w.WriteString(CRLF)
}

// appendKey adds the k flag, base64 encoded with the b flag when the key
// cannot appear verbatim on the wire.
func appendKey(flags *Flags, key []byte) {
	for _, c := range key {
		if c <= ' ' || c >= 0x7f {
			flags.AddTokenBytes(FlagReturnKey, base64.StdEncoding.AppendEncode(nil, key))
			flags.Add(FlagBase64Key)
			return
		}
	}
	flags.AddTokenBytes(FlagReturnKey, key)
}

func writeStatus(w responseWriter, status StatusType, flags Flags) {
	w.WriteString(string(status))
	w.Write(flags)
	w.WriteString(CRLF)
}

func isRejectedRequest(c result.Code) bool {
	switch c {
	case result.BadCommand, result.BadKey, result.BadFlags, result.BadExptime,
		result.BadLeaseID, result.BadCasID, result.BadValue, result.ClientError:
		return true
	default:
		return false
	}
}
