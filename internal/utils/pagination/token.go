package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Cursor marks the last transaction of a page in (date desc, sequence desc) order.
type Cursor struct {
	Date     time.Time
	Sequence int64
}

// EncodeToken creates a base64 encoded token from a transaction date and its storage sequence.
func EncodeToken(date time.Time, sequence int64) string {
	tokenStr := fmt.Sprintf("%s|%d", date.UTC().Format(dateFormat), sequence)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a Cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	sequence, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	return Cursor{Date: date, Sequence: sequence}, nil
}

// Before reports whether a transaction at (date, sequence) sorts after the cursor,
// i.e. belongs on a later page of a newest-first listing.
func (c Cursor) Before(date time.Time, sequence int64) bool {
	if !date.Equal(c.Date) {
		return date.Before(c.Date)
	}
	return sequence < c.Sequence
}

// NormalizeLimit clamps a requested page size into [1, max], using def for non-positive values.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
