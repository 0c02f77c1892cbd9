// Package meta implements the reply side of the Memcached Meta Protocol
// (version 1.6+) for the routing layer.
//
// It parses backend replies into Response values, converts them into
// reference-counted msg.Msg handles carrying a result.Code, and serializes
// messages back into meta replies for onward transmission.
//
// # Reading
//
// ReadResponse parses a single reply:
//
//	resp, err := meta.ReadResponse(bufio.NewReader(conn))
//	if err != nil {
//	    if meta.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
//
// ToMsg maps the reply onto a message for the operation that produced it:
//
//	m := meta.ToMsg(msg.OpGet, resp)
//	defer m.Release()
//
// # Status mapping
//
//   - HD: stored, deleted, touched or found depending on the operation
//   - VA: found (stored for arithmetic); the X flag yields foundstale
//   - HD or VA with the Z flag on a read: notfoundhot
//   - EN, NF: notfound
//   - NS: notstored
//   - EX: exists
//   - MN, ME: ok
//   - CLIENT_ERROR: client_error, or the bad_* code its message starts with
//   - SERVER_ERROR: remote_error, or the error code its message starts with
//   - ERROR: bad_command
//
// Unrecognized statuses map to unknown. Error codes without a diagnostic
// are written as their name, so "SERVER_ERROR tko" reads back as tko.
//
// # Writing
//
// WriteResponse is the inverse of ToMsg for the statuses it can express.
// Keys that are not printable are sent base64 encoded with the b flag:
//
//	err := meta.WriteResponse(w, m)
//
// # Error Handling
//
// The package defines error types that indicate connection state:
//
//   - ClientError: Protocol state corrupted, CLOSE connection
//   - ServerError: Server-side error, connection can be REUSED
//   - GenericError: Unknown command or protocol issue, CLOSE connection
//   - ParseError: Client-side parsing failure, CLOSE connection
//   - ConnectionError: Network/I/O error, connection already broken
//
// # Thread Safety
//
// Response values are not thread-safe. ReadResponse and WriteResponse are
// safe for concurrent use with distinct readers and writers.
package meta
