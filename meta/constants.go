package meta

// FlagType represents a single-character flag identifier.
type FlagType byte

// StatusType represents a response status code (2 characters).
type StatusType string

// Protocol delimiters
const (
	// CRLF is the line terminator for the memcached protocol
	CRLF = "\r\n"

	// Space separates tokens
	Space = " "
)

// Response status codes (2 characters)
const (
	// StatusHD indicates success with no value data returned (Header/Stored)
	StatusHD StatusType = "HD"

	// StatusVA indicates success with value data following (Value)
	StatusVA StatusType = "VA"

	// StatusEN indicates key not found - miss (End/Not Found)
	StatusEN StatusType = "EN"

	// StatusNF indicates key not found for operations requiring existing key (Not Found)
	StatusNF StatusType = "NF"

	// StatusNS indicates item was not stored (Not Stored)
	StatusNS StatusType = "NS"

	// StatusEX indicates CAS mismatch - item was modified (Exists)
	StatusEX StatusType = "EX"

	// StatusMN is the response to mn command (Meta No-op)
	StatusMN StatusType = "MN"

	// StatusME is the debug information response (Meta Debug)
	StatusME StatusType = "ME"
)

// Non-meta error responses
const (
	// ErrorGeneric is returned for unknown command or generic errors
	ErrorGeneric = "ERROR"

	// ErrorClientPrefix indicates client sent invalid data
	ErrorClientPrefix = "CLIENT_ERROR"

	// ErrorServerPrefix indicates a server-side error
	ErrorServerPrefix = "SERVER_ERROR"
)

// Response flags
const (
	FlagBase64Key         FlagType = 'b'
	FlagReturnKey         FlagType = 'k'
	FlagReturnCAS         FlagType = 'c'
	FlagReturnClientFlags FlagType = 'f'
	FlagReturnTTL         FlagType = 't'
	FlagReturnLastAccess  FlagType = 'l'

	// FlagWin indicates client has exclusive right to recache (Win flag)
	FlagWin FlagType = 'W'

	// FlagStale indicates item is marked as stale
	FlagStale FlagType = 'X'

	// FlagAlreadyWon indicates another client has already received W flag
	FlagAlreadyWon FlagType = 'Z'
)

// Protocol limits
const (
	// MaxValueSize is the default maximum value size (configurable on server)
	MaxValueSize = 1024 * 1024 // 1 MB
)
