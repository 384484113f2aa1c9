// Package natsort orders strings the way people read them: case-insensitive,
// with runs of digits compared by numeric value, so "img2" sorts before
// "img10".
package natsort

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Compare returns -1, 0 or 1 comparing a and b in natural, case-insensitive
// order. Strings that compare equal ignoring case fall back to a byte
// comparison so the order is total.
func Compare(a, b string) int {
	if c := compareFold(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts s in place in natural order.
func Strings(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return Less(s[i], s[j]) })
}

func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, _ := utf8.DecodeRuneInString(a)
		rb, _ := utf8.DecodeRuneInString(b)

		if isDigit(ra) && isDigit(rb) {
			na, restA := digitRun(a)
			nb, restB := digitRun(b)
			if c := compareNumeric(na, nb); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}

		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		a = a[utf8.RuneLen(ra):]
		b = b[utf8.RuneLen(rb):]
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitRun(s string) (string, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// compareNumeric compares two digit strings by value without parsing, so
// runs longer than an int64 still order correctly. Equal values with
// different zero padding order the shorter run first.
func compareNumeric(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")

	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
