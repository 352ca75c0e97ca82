package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// Version tokens travel as quoted integers in conditional-request headers,
// mirroring HTTP strong validators. FormatVersion renders the stored counter
// in that form; ParseVersionToken accepts both the quoted and bare forms.

// FormatVersion renders a version counter as an ETag value.
func FormatVersion(version int64) string {
	return fmt.Sprintf("%q", strconv.FormatInt(version, 10))
}

// ParseVersionToken parses a caller-supplied version token. An empty token
// is a distinct failure from an unparsable one.
func ParseVersionToken(token string) (int64, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return 0, newVersionMissing()
	}
	if strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) && len(trimmed) >= 2 {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || value < 0 {
		return 0, newInvalidVersion(token)
	}
	return value, nil
}

// RequireVersionMatch enforces the write-path precondition: the supplied
// token must equal the stored version exactly.
func RequireVersionMatch(token string, stored int64) (int64, error) {
	requested, err := ParseVersionToken(token)
	if err != nil {
		return 0, err
	}
	if requested != stored {
		return 0, newVersionConflict(stored, requested)
	}
	return requested, nil
}

// MatchesForRead reports whether an If-None-Match token equals the stored
// version. A missing token means no precondition was supplied.
func MatchesForRead(token string, stored int64) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	requested, err := ParseVersionToken(token)
	if err != nil {
		return false, err
	}
	return requested == stored, nil
}
