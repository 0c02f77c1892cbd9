package meta

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// Pre-allocated byte slices for comparisons (avoid allocation in hot path)
var (
	crlfBytes         = []byte(CRLF)
	errorGenericBytes = []byte(ErrorGeneric)
	clientErrorPrefix = []byte(ErrorClientPrefix + " ")
	serverErrorPrefix = []byte(ErrorServerPrefix + " ")
)

// ReadResponse reads and parses a single reply from r.
// Reply format: <status> [<size>] [<flags>*]\r\n[<data>\r\n]
//
// Protocol errors (CLIENT_ERROR, SERVER_ERROR, ERROR) are returned as
// Response.Error, not as Go errors.
//
// Go errors returned indicate I/O or parsing failures:
//   - io.EOF: Connection closed before a reply started
//   - ParseError: Malformed reply, connection should be closed
//   - Other I/O errors: Connection issues, connection should be closed
func ReadResponse(r *bufio.Reader) (*Response, error) {
	// ReadSlice avoids allocation; fall back to ReadBytes for long lines
	line, err := r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		// line aliases the reader buffer, which the next read overwrites
		head := append([]byte(nil), line...)
		rest, rerr := r.ReadBytes('\n')
		line = append(head, rest...)
		err = rerr
	}
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return nil, &ParseError{Message: "truncated response line", Err: io.ErrUnexpectedEOF}
		}
		return nil, err
	}

	line = bytes.TrimSuffix(line, crlfBytes)
	line = bytes.TrimSuffix(line, []byte{'\n'})

	if bytes.HasPrefix(line, clientErrorPrefix) {
		return &Response{Error: &ClientError{Message: string(line[len(clientErrorPrefix):])}}, nil
	}
	if bytes.HasPrefix(line, serverErrorPrefix) {
		return &Response{Error: &ServerError{Message: string(line[len(serverErrorPrefix):])}}, nil
	}
	if bytes.Equal(line, errorGenericBytes) {
		return &Response{Error: &GenericError{Message: ErrorGeneric}}, nil
	}

	if len(line) < 2 {
		return nil, &ParseError{Message: "empty response line"}
	}

	statusEnd := bytes.IndexByte(line, ' ')
	if statusEnd == -1 {
		statusEnd = len(line)
	}

	resp := &Response{
		Status: StatusType(line[:statusEnd]),
	}

	if resp.Status == StatusMN {
		return resp, nil
	}

	pos := statusEnd

	// ME carries debug key=value pairs after the key, kept verbatim in Data
	if resp.Status == StatusME {
		fields := bytes.Fields(line[pos:])
		if len(fields) > 1 {
			resp.Data = bytes.Join(fields[1:], []byte(Space))
		}
		return resp, nil
	}

	// VA response has size as second field
	dataSize := -1
	if resp.Status == StatusVA {
		pos = flagsSkipSpaces(line, pos)

		sizeEnd := bytes.IndexByte(line[pos:], ' ')
		var sizeBytes []byte
		if sizeEnd == -1 {
			sizeBytes = line[pos:]
			pos = len(line)
		} else {
			sizeBytes = line[pos : pos+sizeEnd]
			pos += sizeEnd
		}

		if len(sizeBytes) == 0 {
			return nil, &ParseError{Message: "VA response missing size"}
		}

		dataSize, err = strconv.Atoi(string(sizeBytes))
		if err != nil {
			return nil, &ParseError{Message: "invalid size in VA response", Err: err}
		}
		if dataSize < 0 {
			return nil, &ParseError{Message: "negative size in VA response"}
		}
		if dataSize > MaxValueSize {
			return nil, &ParseError{Message: "VA size exceeds maximum value size"}
		}
	}

	for pos < len(line) {
		pos = flagsSkipSpaces(line, pos)
		if pos >= len(line) {
			break
		}

		end := bytes.IndexByte(line[pos:], ' ')
		var flag []byte
		if end == -1 {
			flag = line[pos:]
			pos = len(line)
		} else {
			flag = line[pos : pos+end]
			pos += end
		}

		resp.Flags.AddTokenBytes(FlagType(flag[0]), flag[1:])
	}

	if dataSize >= 0 {
		// Read data + CRLF together in single read
		data := make([]byte, dataSize+2)
		if _, err := io.ReadFull(r, data); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, &ParseError{Message: "failed to read data block", Err: err}
		}
		if !bytes.HasSuffix(data, crlfBytes) {
			return nil, &ParseError{Message: "invalid data block terminator"}
		}
		resp.Data = data[:dataSize]
	}

	return resp, nil
}
