package meta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/pior/mcroute/result"
)

// Error types for reply parsing.
// Each error tells the caller whether the connection is still usable and
// which result code the failed exchange maps to.

// ClientError represents a CLIENT_ERROR reply.
// The backend rejected our input; protocol state may be corrupted.
//
// Connection handling: CLOSE connection immediately
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string {
	return "CLIENT_ERROR: " + e.Message
}

// ShouldCloseConnection returns true - client errors require closing connection
func (e *ClientError) ShouldCloseConnection() bool {
	return true
}

// Result maps the reply to result.ClientError, or to the rejection code
// named by the first word of the message.
func (e *ClientError) Result() result.Code {
	return namedResult(e.Message, result.ClientError, isRejectedRequest)
}

// ServerError represents a SERVER_ERROR reply.
// The exchange completed but the backend failed to serve it.
//
// Connection handling: Connection can be REUSED
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "SERVER_ERROR: " + e.Message
}

// ShouldCloseConnection returns false - server errors don't corrupt protocol state
func (e *ServerError) ShouldCloseConnection() bool {
	return false
}

// Result maps the reply to result.RemoteError, or to the error code named by
// the first word of the message as written by WriteResponse.
func (e *ServerError) Result() result.Code {
	return namedResult(e.Message, result.RemoteError, func(c result.Code) bool {
		return result.IsError(c) && !isRejectedRequest(c)
	})
}

func namedResult(message string, fallback result.Code, accept func(result.Code) bool) result.Code {
	word, _, _ := strings.Cut(message, " ")
	if c, err := result.ParseCode(word); err == nil && accept(c) {
		return c
	}
	return fallback
}

// GenericError represents a bare ERROR reply, usually an unknown command.
//
// Connection handling: CLOSE connection, protocol state is uncertain
type GenericError struct {
	Message string
}

func (e *GenericError) Error() string {
	return e.Message
}

// ShouldCloseConnection returns true - generic errors indicate protocol issues
func (e *GenericError) ShouldCloseConnection() bool {
	return true
}

func (e *GenericError) Result() result.Code {
	return result.BadCommand
}

// ParseError represents a reply the parser could not make sense of.
//
// Connection handling: CLOSE connection, state is uncertain
type ParseError struct {
	Message string
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse error: " + e.Message + ": " + e.Err.Error()
	}
	return "parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - parse errors indicate corrupted state
func (e *ParseError) ShouldCloseConnection() bool {
	return true
}

func (e *ParseError) Result() result.Code {
	return result.RemoteError
}

// ConnectionError wraps I/O errors from connection operations.
//
// Connection handling: Connection is already broken, CLOSE and potentially RECONNECT
type ConnectionError struct {
	Op  string // Operation that failed: dial, read, write
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// Result distinguishes failures that happened while connecting, where the
// request never left, from failures on an established connection.
func (e *ConnectionError) Result() result.Code {
	timeout := isTimeout(e.Err)
	if e.Op == "dial" {
		if timeout {
			return result.ConnectTimeout
		}
		return result.ConnectError
	}
	if timeout {
		return result.Timeout
	}
	return result.RemoteError
}

// ErrorWithConnectionState is implemented by all protocol error types.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ErrorWithResult is implemented by errors that map to a result code.
type ErrorWithResult interface {
	error
	Result() result.Code
}

// ShouldCloseConnection reports whether err requires closing the connection.
// Unknown error types are treated conservatively and close it.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}

// ResultFromError maps a transport or parsing failure to the result code of
// the reply the routing layer should see. A nil error maps to result.Unknown.
func ResultFromError(err error) result.Code {
	if err == nil {
		return result.Unknown
	}

	var e ErrorWithResult
	if errors.As(err, &e) {
		return e.Result()
	}

	switch {
	case errors.Is(err, context.Canceled):
		return result.Aborted
	case isTimeout(err):
		return result.Timeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return result.ConnectError
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return result.RemoteError
	default:
		return result.LocalError
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
