package bignum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrParse = errors.New("invalid numeric format")

// String renders n in decimal.
func (n Nat) String() string {
	limbs := trimLimbs(n.Limbs)
	if len(limbs) == 0 {
		return "0"
	}

	const chunk = uint32(1_000_000_000)

	cur := Nat{Limbs: limbs}
	var parts []uint32
	for !cur.IsZero() {
		q, r, err := cur.DivModSmall(chunk)
		if err != nil {
			return "<format-error>"
		}
		parts = append(parts, r)
		cur = q
	}

	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(parts[len(parts)-1]), 10))
	for i := len(parts) - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, "%09d", parts[i])
	}
	return sb.String()
}

// String renders i in decimal with a leading '-' when negative.
func (i Int) String() string {
	if i.IsZero() {
		return "0"
	}
	if i.Neg {
		return "-" + i.Abs.String()
	}
	return i.Abs.String()
}

// ParseNat parses a decimal natural number; underscores are ignored.
func ParseNat(s string) (Nat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Nat{}, ErrParse
	}
	var out Nat
	digits := 0
	for idx := range len(s) {
		ch := s[idx]
		if ch == '_' {
			continue
		}
		if ch < '0' || ch > '9' {
			return Nat{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		var err error
		if out, err = out.MulSmall(10); err != nil {
			return Nat{}, err
		}
		if out, err = out.AddSmall(uint32(ch - '0')); err != nil {
			return Nat{}, err
		}
		digits++
	}
	if digits == 0 {
		return Nat{}, ErrParse
	}
	return out, nil
}

// ParseInt parses an optionally signed decimal integer.
func ParseInt(s string) (Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Int{}, ErrParse
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	mag, err := ParseNat(s)
	if err != nil {
		return Int{}, err
	}
	return intFromParts(neg, mag), nil
}
