// Package alphabet defines the four-letter DNA alphabet shared by every engine.
//
// Engines index their transition tables by the position of a base in Bases,
// so the order here is also the column order of every table.
package alphabet

// Size is the number of symbols in the alphabet.
const Size = 4

// Bases is the alphabet in table order.
var Bases = []byte{'A', 'T', 'G', 'C'}

var (
	index      [256]int8
	complement [256]byte
)

func init() {
	for i := range index {
		index[i] = -1
	}
	for i, b := range Bases {
		index[b] = int8(i)
	}
	complement['A'] = 'T'
	complement['T'] = 'A'
	complement['G'] = 'C'
	complement['C'] = 'G'
}

// Index returns the table column of b, or -1 when b is not an uppercase base.
func Index(b byte) int {
	return int(index[b])
}

// Contains reports whether b is an uppercase base.
func Contains(b byte) bool {
	return index[b] >= 0
}

// Complement returns the Watson-Crick partner of b (A<->T, G<->C).
// Any other byte has no partner and yields 0.
func Complement(b byte) byte {
	return complement[b]
}

// Upper folds an ASCII lowercase letter to uppercase and leaves every other
// byte untouched.
func Upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// Normalize uppercases ASCII letters in s.
//
// Byte offsets are preserved, so match windows computed on the normalized
// string index the caller's original sequence.
func Normalize(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			buf := []byte(s)
			for j := i; j < len(buf); j++ {
				buf[j] = Upper(buf[j])
			}
			return string(buf)
		}
	}
	return s
}
