package domain

import (
	"bytes"
	"crypto/md5" //nolint:gosec // content hash for exact-match lookups, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// SortedIDWidth is the fixed width of a zero-padded sorted id.
const SortedIDWidth = 12

// MaxID is the largest id that fits SortedIDWidth digits.
const MaxID ID = 999_999_999_999

// ID is a numeric entity identifier. Upstream APIs send it either as a JSON
// number or as a numeric string.
type ID int64

// ParseID parses a decimal identifier in [0, MaxID].
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, ErrInvalidEntity)
	}
	return checkID(n)
}

func checkID(n int64) (ID, error) {
	if n < 0 || n > int64(MaxID) {
		return 0, fmt.Errorf("id %d out of range: %w", n, ErrInvalidEntity)
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Sorted returns the id rendered as a sorted id.
func (id ID) Sorted() string { return SortedID(int64(id)) }

// UnmarshalJSON accepts 12, "12" and null. Ids outside [0, MaxID] are
// rejected.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", data, ErrInvalidEntity)
	}
	parsed, err := checkID(n)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// SortedID renders n zero-padded to SortedIDWidth digits so that
// lexicographic order equals numeric order.
func SortedID(n int64) string {
	return fmt.Sprintf("%0*d", SortedIDWidth, n)
}

// PadID zero-pads a numeric string id. Already padded or shorter ids are
// normalized; non-numeric ids are returned unchanged.
func PadID(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return SortedID(n)
}

// HashID returns the hex MD5 digest of s.
func HashID(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// HashIDs hashes every value, preserving order.
func HashIDs(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = HashID(v)
	}
	return out
}

// Scalar is a free-form JSON scalar (string, number or bool) kept as text.
type Scalar string

// UnmarshalJSON decodes any scalar into its textual form.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
	default:
		*s = Scalar(data)
	}
	return nil
}
