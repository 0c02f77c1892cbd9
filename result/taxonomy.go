package result

// IsError reports whether c is an error outcome.
// Unknown and Waiting are not errors.
func IsError(c Code) bool {
	return c >= OOO && c <= RemoteError
}

// IsFailoverError reports whether c is an error the routing layer may retry
// against an alternate destination.
func IsFailoverError(c Code) bool {
	switch c {
	case Busy, Shutdown, TKO, TryAgain, LocalError,
		ConnectError, ConnectTimeout, Timeout, RemoteError:
		return true
	default:
		return false
	}
}

// IsSoftTkoError reports whether c should count towards marking the
// destination down after repeated occurrences.
func IsSoftTkoError(c Code) bool {
	return c == Timeout
}

// IsHardTkoError reports whether c should mark the destination down at once.
func IsHardTkoError(c Code) bool {
	switch c {
	case ConnectError, ConnectTimeout, Shutdown:
		return true
	default:
		return false
	}
}

// IsTko reports whether the request was never sent because the destination
// was already marked down. IsTko(c) implies IsError(c).
func IsTko(c Code) bool {
	return c == TKO
}

// IsLocalError reports whether the request was rejected before being sent,
// for example because it was invalid or rate limited.
func IsLocalError(c Code) bool {
	return c == LocalError
}

// IsConnectError reports whether the connection attempt was refused.
func IsConnectError(c Code) bool {
	return c == ConnectError
}

// IsConnectTimeout reports whether establishing the connection timed out.
func IsConnectTimeout(c Code) bool {
	return c == ConnectTimeout
}

// IsDataTimeout reports whether the exchange failed on an established
// connection. The request may or may not have reached the server.
func IsDataTimeout(c Code) bool {
	return c == Timeout || c == RemoteError
}

// IsRedirect reports whether the server is up but declined to answer now.
func IsRedirect(c Code) bool {
	return c == Busy || c == TryAgain
}

// IsHit reports whether the data was found.
func IsHit(c Code) bool {
	return c == Deleted || c == Found || c == Touched
}

// IsMiss reports whether the data was not found and no error occurred.
func IsMiss(c Code) bool {
	return c == NotFound
}

// IsHotMiss reports a lease hot miss.
func IsHotMiss(c Code) bool {
	return c == FoundStale || c == NotFoundHot
}

// IsStored reports whether the data was stored.
func IsStored(c Code) bool {
	return c == Stored || c == StaleStored
}
