package msg

import "fmt"

// Op is the kind of operation a message belongs to.
type Op uint8

const (
	OpUnknown Op = iota
	OpGet
	OpGets
	OpLeaseGet
	OpMetaGet
	OpSet
	OpAdd
	OpReplace
	OpAppend
	OpPrepend
	OpCas
	OpLeaseSet
	OpDelete
	OpIncr
	OpDecr
	OpTouch
	OpVersion
	OpStats

	numOps
)

var opNames = [numOps]string{
	OpUnknown:  "unknown",
	OpGet:      "get",
	OpGets:     "gets",
	OpLeaseGet: "lease_get",
	OpMetaGet:  "metaget",
	OpSet:      "set",
	OpAdd:      "add",
	OpReplace:  "replace",
	OpAppend:   "append",
	OpPrepend:  "prepend",
	OpCas:      "cas",
	OpLeaseSet: "lease_set",
	OpDelete:   "delete",
	OpIncr:     "incr",
	OpDecr:     "decr",
	OpTouch:    "touch",
	OpVersion:  "version",
	OpStats:    "stats",
}

func (o Op) String() string {
	if o < numOps {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// ParseOp returns the op whose String form is name.
func ParseOp(name string) (Op, error) {
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return OpUnknown, fmt.Errorf("msg: unknown op %q", name)
}

// IsGetLike reports whether o retrieves an item.
func (o Op) IsGetLike() bool {
	switch o {
	case OpGet, OpGets, OpLeaseGet, OpMetaGet:
		return true
	default:
		return false
	}
}

// IsUpdateLike reports whether o stores an item.
func (o Op) IsUpdateLike() bool {
	switch o {
	case OpSet, OpAdd, OpReplace, OpAppend, OpPrepend, OpCas, OpLeaseSet:
		return true
	default:
		return false
	}
}

func (o Op) IsDeleteLike() bool {
	return o == OpDelete
}

func (o Op) IsArithmetic() bool {
	return o == OpIncr || o == OpDecr
}

// CarriesValue reports whether a successful reply to o has a value.
func (o Op) CarriesValue() bool {
	return o.IsGetLike() || o.IsArithmetic() || o == OpVersion || o == OpStats
}
