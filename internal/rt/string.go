package rt

import (
	"bytes"
	"strconv"
	"unicode/utf8"
)

// charDefault is returned for reads past the end of a string.
const charDefault uint32 = 0

func (r *Runtime) allocString(data []byte, utf8Len, capacity int) Object {
	capacity = max(capacity, len(data))
	buf := make([]byte, len(data), capacity)
	copy(buf, data)
	c := &cell{
		hdr:     Header{Tag: TagString, CsSz: smallSize(StringObjectSize(capacity))},
		bytes:   buf,
		utf8Len: utf8Len,
	}
	return r.alloc(c)
}

// MkString allocates a string holding s. Invalid UTF-8 sequences are
// replaced by U+FFFD so every string buffer is valid UTF-8.
func (r *Runtime) MkString(s string) Object {
	if !utf8.ValidString(s) {
		s = string(bytes.ToValidUTF8([]byte(s), []byte("\uFFFD")))
	}
	return r.allocString([]byte(s), utf8.RuneCountInString(s), len(s))
}

func (r *Runtime) stringCell(s Object) *cell {
	c := r.cell(s)
	if c.kind() != KindString {
		r.panicf(PanicTypeMismatch, "expected string, got %s", c.kind())
	}
	return c
}

// StringValue returns a copy of the contents of s.
func (r *Runtime) StringValue(s Object) string {
	return string(r.stringCell(s).bytes)
}

// StringBytes returns the bytes of s, borrowed and without the NUL.
func (r *Runtime) StringBytes(s Object) []byte {
	return r.stringCell(s).bytes
}

// StringByteLen returns the number of bytes excluding the NUL terminator.
func (r *Runtime) StringByteLen(s Object) int {
	return len(r.stringCell(s).bytes)
}

// StringSize returns the number of bytes including the NUL terminator.
func (r *Runtime) StringSize(s Object) int {
	return r.StringByteLen(s) + 1
}

// StringCapacity returns the allocated byte capacity.
func (r *Runtime) StringCapacity(s Object) int {
	return cap(r.stringCell(s).bytes)
}

// StringLength returns the code point count as a boxed Nat.
func (r *Runtime) StringLength(s Object) Object {
	return r.boxLen(r.stringCell(s).utf8Len)
}

// StringUTF8ByteSize returns the byte length as a boxed Nat.
func (r *Runtime) StringUTF8ByteSize(s Object) Object {
	return r.boxLen(r.StringByteLen(s))
}

// StringAppend appends s2 (borrowed) to s1 (owned). An exclusive s1 with
// room is extended in place; otherwise the new capacity is max(newLen, 2*len1).
func (r *Runtime) StringAppend(s1, s2 Object) Object {
	c1 := r.stringCell(s1)
	c2 := r.stringCell(s2)
	len1 := len(c1.bytes)
	newLen := len1 + len(c2.bytes)
	if r.IsExclusive(s1) && newLen <= cap(c1.bytes) {
		c1.bytes = append(c1.bytes, c2.bytes...)
		c1.utf8Len += c2.utf8Len
		return s1
	}
	out := r.allocString(c1.bytes, c1.utf8Len+c2.utf8Len, max(newLen, len1*2))
	oc := r.cell(out)
	oc.bytes = append(oc.bytes, c2.bytes...)
	r.Dec(s1)
	return out
}

// encodeChar encodes a code point, mapping invalid scalar values to U+FFFD.
func encodeChar(ch uint32) []byte {
	rn := rune(ch) //nolint:gosec // G115: validated below.
	if ch > utf8.MaxRune || !utf8.ValidRune(rn) {
		rn = utf8.RuneError
	}
	return utf8.AppendRune(nil, rn)
}

// StringPush appends the character ch to s (owned).
func (r *Runtime) StringPush(s Object, ch uint32) Object {
	enc := encodeChar(ch)
	c := r.stringCell(s)
	newLen := len(c.bytes) + len(enc)
	if r.IsExclusive(s) && newLen <= cap(c.bytes) {
		c.bytes = append(c.bytes, enc...)
		c.utf8Len++
		return s
	}
	out := r.allocString(c.bytes, c.utf8Len+1, max(newLen, len(c.bytes)*2))
	oc := r.cell(out)
	oc.bytes = append(oc.bytes, enc...)
	r.Dec(s)
	return out
}

// posIndex converts a boxed byte position; big positions are past the end.
func posIndex(i Object) int {
	idx, ok := natIndex(i)
	if !ok {
		return int(^uint(0) >> 1)
	}
	return idx
}

func utf8Width(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// decodeAt decodes the character at byte offset idx.
func decodeAt(data []byte, idx int) uint32 {
	rn, _ := utf8.DecodeRune(data[idx:])
	return uint32(rn) //nolint:gosec // G115: runes are non-negative.
}

// StringUTF8Get returns the character at byte position i, or 0 past the end.
func (r *Runtime) StringUTF8Get(s, i Object) uint32 {
	data := r.StringBytes(s)
	idx := posIndex(i)
	if idx >= len(data) {
		return charDefault
	}
	return decodeAt(data, idx)
}

// StringUTF8GetFast reads at a position known to be valid.
func (r *Runtime) StringUTF8GetFast(s, i Object) uint32 {
	return r.StringUTF8Get(s, i)
}

// StringUTF8GetOpt returns Option Char.
func (r *Runtime) StringUTF8GetOpt(s, i Object) Object {
	data := r.StringBytes(s)
	idx := posIndex(i)
	if idx >= len(data) {
		return MkOptionNone()
	}
	return r.MkOptionSome(BoxUint32(decodeAt(data, idx)))
}

// StringUTF8GetBang is String.get!: reading past the end is fatal.
func (r *Runtime) StringUTF8GetBang(s, i Object) uint32 {
	data := r.StringBytes(s)
	idx := posIndex(i)
	if idx >= len(data) {
		r.panic(PanicOutOfBounds, "String.get!: index out of bounds")
	}
	return decodeAt(data, idx)
}

// StringUTF8Next returns the position after the character at i. Past the
// end it advances by one byte.
func (r *Runtime) StringUTF8Next(s, i Object) Object {
	data := r.StringBytes(s)
	idx := posIndex(i)
	if idx >= len(data) {
		return Box(Unbox(i) + 1)
	}
	return r.boxLen(idx + utf8Width(data[idx]))
}

// StringUTF8NextFast is StringUTF8Next for positions known to be valid.
func (r *Runtime) StringUTF8NextFast(s, i Object) Object {
	return r.StringUTF8Next(s, i)
}

// StringUTF8Prev returns the start of the character before i.
func (r *Runtime) StringUTF8Prev(s, i Object) Object {
	data := r.StringBytes(s)
	idx := posIndex(i)
	if idx == 0 {
		return Box(0)
	}
	pos := min(idx, len(data)) - 1
	for pos > 0 && data[pos]&0xC0 == 0x80 {
		pos--
	}
	return r.boxLen(max(pos, 0))
}

// StringUTF8AtEnd reports whether i is at or past the end of s.
func (r *Runtime) StringUTF8AtEnd(s, i Object) bool {
	return posIndex(i) >= r.StringByteLen(s)
}

// StringUTF8Extract returns the bytes between positions b and e of s
// (borrowed). Positions are clamped to the string; b >= e or a b inside a
// character yields "". An e inside a character is moved to its end.
func (r *Runtime) StringUTF8Extract(s, b, e Object) Object {
	data := r.StringBytes(s)
	begin := min(posIndex(b), len(data))
	end := min(posIndex(e), len(data))
	if begin >= end || data[begin]&0xC0 == 0x80 {
		return r.MkString("")
	}
	for end < len(data) && data[end]&0xC0 == 0x80 {
		end++
	}
	sub := data[begin:end]
	return r.allocString(sub, utf8.RuneCount(sub), len(sub))
}

// StringUTF8Set replaces the character at i with ch. s is owned and is
// returned unchanged when i is not the start of a character.
func (r *Runtime) StringUTF8Set(s, i Object, ch uint32) Object {
	c := r.stringCell(s)
	idx := posIndex(i)
	if idx >= len(c.bytes) || c.bytes[idx]&0xC0 == 0x80 {
		return s
	}
	oldW := min(utf8Width(c.bytes[idx]), len(c.bytes)-idx)
	enc := encodeChar(ch)
	buf := make([]byte, 0, len(c.bytes)-oldW+len(enc))
	buf = append(buf, c.bytes[:idx]...)
	buf = append(buf, enc...)
	buf = append(buf, c.bytes[idx+oldW:]...)
	if r.IsExclusive(s) && len(buf) <= cap(c.bytes) {
		c.bytes = append(c.bytes[:0], buf...)
		return s
	}
	out := r.allocString(buf, c.utf8Len, len(buf))
	r.Dec(s)
	return out
}

// StringIsValidPos reports whether i is a character boundary of s.
func (r *Runtime) StringIsValidPos(s, i Object) bool {
	data := r.StringBytes(s)
	idx := posIndex(i)
	switch {
	case idx > len(data):
		return false
	case idx == 0 || idx == len(data):
		return true
	default:
		return data[idx]&0xC0 != 0x80
	}
}

// StringGetByteFast returns the raw byte at position i.
func (r *Runtime) StringGetByteFast(s, i Object) uint8 {
	return r.StringBytes(s)[posIndex(i)]
}

// StringDecEq compares two strings (both borrowed).
func (r *Runtime) StringDecEq(s1, s2 Object) bool {
	if s1 == s2 {
		return true
	}
	return bytes.Equal(r.StringBytes(s1), r.StringBytes(s2))
}

// StringDecLt orders strings by their bytes.
func (r *Runtime) StringDecLt(s1, s2 Object) bool {
	return bytes.Compare(r.StringBytes(s1), r.StringBytes(s2)) < 0
}

// StringHash is the FNV-1a 64-bit hash of the string bytes.
func (r *Runtime) StringHash(s Object) uint64 {
	const (
		offset64 = 0xcbf29ce484222325
		prime64  = 0x100000001b3
	)
	h := uint64(offset64)
	for _, b := range r.StringBytes(s) {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

// StringMemcmp compares n bytes of s1 at lstart with s2 at rstart. Ranges
// past either end compare unequal.
func (r *Runtime) StringMemcmp(s1, s2, lstart, rstart, n Object) bool {
	d1, d2 := r.StringBytes(s1), r.StringBytes(s2)
	l, rs, cnt := posIndex(lstart), posIndex(rstart), posIndex(n)
	if l > len(d1) || rs > len(d2) || cnt > len(d1)-l || cnt > len(d2)-rs {
		return false
	}
	return bytes.Equal(d1[l:l+cnt], d2[rs:rs+cnt])
}

// StringIsPrefixOf reports whether p is a prefix of s.
func (r *Runtime) StringIsPrefixOf(p, s Object) bool {
	return bytes.HasPrefix(r.StringBytes(s), r.StringBytes(p))
}

// StringOfUSize builds a one-character string; invalid code points give "".
func (r *Runtime) StringOfUSize(ch uint64) Object {
	if ch > utf8.MaxRune || !utf8.ValidRune(rune(ch)) { //nolint:gosec // G115: bounded by MaxRune.
		return r.MkString("")
	}
	return r.MkString(string(rune(ch))) //nolint:gosec // G115: bounded by MaxRune.
}

// mapASCII applies an ASCII-only character mapping, matching Char.toUpper and
// Char.toLower. s is owned.
func (r *Runtime) mapASCII(s Object, lo, hi byte, delta int) Object {
	data := r.StringBytes(s)
	if bytes.IndexFunc(data, func(rn rune) bool { return rn >= rune(lo) && rn <= rune(hi) }) < 0 {
		return s
	}
	out := make([]byte, len(data))
	for i, b := range data {
		if b >= lo && b <= hi {
			b = byte(int(b) + delta) //nolint:gosec // G115: stays within ASCII letters.
		}
		out[i] = b
	}
	n := r.allocString(out, r.stringCell(s).utf8Len, len(out))
	r.Dec(s)
	return n
}

// StringToUpper maps ASCII lowercase letters to uppercase. s is owned.
func (r *Runtime) StringToUpper(s Object) Object {
	return r.mapASCII(s, 'a', 'z', -32)
}

// StringToLower maps ASCII uppercase letters to lowercase. s is owned.
func (r *Runtime) StringToLower(s Object) Object {
	return r.mapASCII(s, 'A', 'Z', 32)
}

// StringToUTF8 returns the bytes of s (borrowed) as a ByteArray.
func (r *Runtime) StringToUTF8(s Object) Object {
	return r.ByteArrayOf(r.StringBytes(s))
}

// StringValidateUTF8 reports whether a ByteArray holds valid UTF-8.
func (r *Runtime) StringValidateUTF8(a Object) bool {
	return utf8.Valid(r.ByteArrayBytes(a))
}

// StringFromUTF8 decodes a ByteArray (borrowed) into Option String. Invalid
// UTF-8 yields none.
func (r *Runtime) StringFromUTF8(a Object) Object {
	data := r.ByteArrayBytes(a)
	if !utf8.Valid(data) {
		return MkOptionNone()
	}
	return r.MkOptionSome(r.allocString(data, utf8.RuneCount(data), len(data)))
}

// StringMk converts a List Char (owned) into a String.
func (r *Runtime) StringMk(list Object) Object {
	var buf []byte
	count := 0
	for cur := list; !cur.IsScalar(); cur = r.CtorGet(cur, 1) {
		buf = append(buf, encodeChar(UnboxUint32(r.CtorGet(cur, 0)))...)
		count++
	}
	r.Dec(list)
	return r.allocString(buf, count, len(buf))
}

// StringData converts a String (owned) into a List Char.
func (r *Runtime) StringData(s Object) Object {
	runes := []rune(r.StringValue(s))
	list := Box(0)
	for i := len(runes) - 1; i >= 0; i-- {
		list = r.MkListCons(BoxUint32(uint32(runes[i])), list) //nolint:gosec // G115: runes are non-negative.
	}
	r.Dec(s)
	return list
}

// String.Iterator is the constructor {s, pos}.

// StringIteratorCurr returns the character under it (borrowed).
func (r *Runtime) StringIteratorCurr(it Object) uint32 {
	return r.StringUTF8Get(r.CtorGet(it, 0), r.CtorGet(it, 1))
}

// StringIteratorHasNext reports whether it (borrowed) is before the end.
func (r *Runtime) StringIteratorHasNext(it Object) bool {
	return !r.StringUTF8AtEnd(r.CtorGet(it, 0), r.CtorGet(it, 1))
}

// StringIteratorNext advances it (owned).
func (r *Runtime) StringIteratorNext(it Object) Object {
	s := r.CtorGet(it, 0)
	next := r.StringUTF8Next(s, r.CtorGet(it, 1))
	return r.CtorSetField(it, 1, next)
}

// MkStringIterator builds String.Iterator at position 0, taking s.
func (r *Runtime) MkStringIterator(s Object) Object {
	return r.MkPair(s, Box(0))
}

// SubstringToString copies Substring {s, start, stop} (borrowed).
func (r *Runtime) SubstringToString(ss Object) Object {
	return r.StringUTF8Extract(r.CtorGet(ss, 0), r.CtorGet(ss, 1), r.CtorGet(ss, 2))
}

// StringOfInt64 renders v in decimal; used by the fixed-width repr helpers.
func (r *Runtime) StringOfInt64(v int64) Object {
	return r.MkString(strconv.FormatInt(v, 10))
}

// StringOfUint64 renders v in decimal.
func (r *Runtime) StringOfUint64(v uint64) Object {
	return r.MkString(strconv.FormatUint(v, 10))
}
