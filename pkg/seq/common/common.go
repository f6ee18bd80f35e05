// 29 Apr 2020
// 2 Oct 2026 header char and case helpers for a3m states

package common

import (
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

const GapChar byte = '-' // a minus sign is always used for gaps
const HdrChar byte = '>' // and this introduces a header line

// IsMatch is true for an upper case letter. In a3m files, these are the
// match states, the only ones which use up a position in the query.
func IsMatch(c byte) bool { return 'A' <= c && c <= 'Z' }

// IsInsert is true for a lower case letter, an insertion state.
func IsInsert(c byte) bool { return 'a' <= c && c <= 'z' }

// ToUpper only knows about ascii letters.
func ToUpper(c byte) byte {
	if IsInsert(c) {
		return c - ('a' - 'A')
	}
	return c
}

// ToLower only knows about ascii letters.
func ToLower(c byte) byte {
	if IsMatch(c) {
		return c + ('a' - 'A')
	}
	return c
}

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := io.WriteString(f_tmp, s); err != nil {
		f_tmp.Close()
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}
