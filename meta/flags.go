package meta

import "strconv"

// Flags is a serialized representation of meta protocol flags.
//
// It contains the exact bytes that appear after the status (and size) on the
// wire, including the leading spaces (e.g. " c123 t60 W").
//
// The zero value is ready to use.
type Flags []byte

func (f *Flags) Add(flagType FlagType) {
	*f = append(*f, ' ', byte(flagType))
}

func (f *Flags) AddTokenBytes(flagType FlagType, token []byte) {
	*f = append(*f, ' ', byte(flagType))
	*f = append(*f, token...)
}

func (f *Flags) AddUint64(flagType FlagType, value uint64) {
	*f = append(*f, ' ', byte(flagType))
	*f = strconv.AppendUint(*f, value, 10)
}

func (f Flags) Has(flagType FlagType) bool {
	_, ok := f.Get(flagType)
	return ok
}

// Get returns the token value for the first flag of the given type.
//
// ok is true if the flag is present.
// token is nil if the flag is present but has no token.
func (f Flags) Get(flagType FlagType) (token []byte, ok bool) {
	for i := 0; i < len(f); {
		i = flagsSkipSpaces(f, i)
		if i >= len(f) {
			return nil, false
		}

		t := FlagType(f[i])
		i++

		start := i
		for i < len(f) && f[i] != ' ' {
			i++
		}

		if t == flagType {
			if start == i {
				return nil, true
			}
			return f[start:i], true
		}
	}
	return nil, false
}

// GetUint64 parses the token of the first flag of the given type.
// ok is false when the flag is absent or its token is not a number.
func (f Flags) GetUint64(flagType FlagType) (uint64, bool) {
	token, ok := f.Get(flagType)
	if !ok || len(token) == 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(string(token), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func flagsSkipSpaces(b []byte, idx int) int {
	for idx < len(b) && b[idx] == ' ' {
		idx++
	}
	return idx
}
