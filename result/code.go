// Package result defines the closed set of operation outcomes and the pure
// classification functions the routing layer uses to decide on failover.
//
// Every predicate is total over Code: any value, including Unknown and values
// outside the enumeration, maps to a defined boolean.
package result

import "fmt"

// Code is the outcome of a single protocol operation.
type Code uint8

const (
	Unknown Code = iota
	Deleted
	Touched
	Found
	FoundStale
	NotFound
	NotFoundHot
	NotStored
	StaleStored
	OK
	Stored
	Exists

	// Errors start here.
	OOO
	Timeout
	ConnectTimeout
	ConnectError
	Busy
	TryAgain
	Shutdown
	TKO
	BadCommand
	BadKey
	BadFlags
	BadExptime
	BadLeaseID
	BadCasID
	BadValue
	Aborted
	ClientError
	LocalError
	RemoteError
	// Errors end here.

	Waiting

	numCodes
)

var codeNames = [numCodes]string{
	Unknown:        "unknown",
	Deleted:        "deleted",
	Touched:        "touched",
	Found:          "found",
	FoundStale:     "foundstale",
	NotFound:       "notfound",
	NotFoundHot:    "notfoundhot",
	NotStored:      "notstored",
	StaleStored:    "stalestored",
	OK:             "ok",
	Stored:         "stored",
	Exists:         "exists",
	OOO:            "ooo",
	Timeout:        "timeout",
	ConnectTimeout: "connect_timeout",
	ConnectError:   "connect_error",
	Busy:           "busy",
	TryAgain:       "try_again",
	Shutdown:       "shutdown",
	TKO:            "tko",
	BadCommand:     "bad_command",
	BadKey:         "bad_key",
	BadFlags:       "bad_flags",
	BadExptime:     "bad_exptime",
	BadLeaseID:     "bad_lease_id",
	BadCasID:       "bad_cas_id",
	BadValue:       "bad_value",
	Aborted:        "aborted",
	ClientError:    "client_error",
	LocalError:     "local_error",
	RemoteError:    "remote_error",
	Waiting:        "waiting",
}

func (c Code) String() string {
	if c < numCodes {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Valid reports whether c is a member of the enumeration.
func (c Code) Valid() bool {
	return c < numCodes
}

// Codes returns every code of the enumeration in declaration order.
func Codes() []Code {
	codes := make([]Code, numCodes)
	for i := range codes {
		codes[i] = Code(i)
	}
	return codes
}

// ParseCode returns the code whose String form is name.
func ParseCode(name string) (Code, error) {
	for i, n := range codeNames {
		if n == name {
			return Code(i), nil
		}
	}
	return Unknown, &UnknownCodeError{Name: name}
}

// UnknownCodeError is returned by ParseCode for names outside the enumeration.
type UnknownCodeError struct {
	Name string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("result: unknown code %q", e.Name)
}
