package rt

import "fmt"

// Version of the runtime interface implemented by this package.
const (
	VersionMajor   = 4
	VersionMinor   = 0
	VersionPatch   = 0
	VersionRelease = true
	VersionSpecial = ""
)

// VersionString returns "major.minor.patch".
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

// PlatformNbits is the word size of the platform.
const PlatformNbits = 64

// SystemPlatformNbits is System.Platform.getNumBits as a boxed Nat.
func SystemPlatformNbits(_ Object) Object {
	return Box(PlatformNbits)
}

// StrictOr and StrictAnd evaluate both operands before combining.
func StrictOr(a, b bool) bool  { return a || b }
func StrictAnd(a, b bool) bool { return a && b }

// Name constructors: anonymous is Box(0); str and num carry a prefix, a
// component and a cached 64-bit hash in the scalar area.
const (
	nameStr uint8 = 1
	nameNum uint8 = 2
)

// NameEq compares two hierarchical names (borrowed). Cached hashes are
// compared first.
func (r *Runtime) NameEq(a, b Object) bool {
	for {
		if a == b {
			return true
		}
		if a.IsScalar() || b.IsScalar() {
			return false
		}
		ca, cb := r.ctorCell(a), r.ctorCell(b)
		if ca.hdr.Tag != cb.hdr.Tag || len(ca.objs) != 2 || len(cb.objs) != 2 {
			return false
		}
		if len(ca.bytes) >= 8 && len(cb.bytes) >= 8 &&
			r.CtorGetUint64(a, 2*WordSize) != r.CtorGetUint64(b, 2*WordSize) {
			return false
		}
		switch ca.hdr.Tag {
		case nameStr:
			if !r.StringDecEq(ca.objs[1], cb.objs[1]) {
				return false
			}
		case nameNum:
			if !r.NatEq(ca.objs[1], cb.objs[1]) {
				return false
			}
		default:
			return false
		}
		a, b = ca.objs[0], cb.objs[0]
	}
}

// Sorry is reached when a program uses an unfinished proof or definition.
func (r *Runtime) Sorry(_ uint8) Object {
	r.InternalPanic("executed 'sorry'")
	return Null
}

// PtrAddr returns the address word of o as a USize.
func PtrAddr(o Object) uint64 {
	return uint64(o)
}
