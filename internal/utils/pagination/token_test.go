package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	date := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(date, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, cursor.Date, "Date should match after decode")
	assert.Equal(t, int64(42), cursor.Sequence, "Sequence should match after decode")

	// time of day is not part of the token
	cursor, err = DecodeToken(EncodeToken(date.Add(15*time.Hour), 7))
	assert.NoError(t, err)
	assert.Equal(t, date, cursor.Date)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|3")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence parse")
}

func TestCursorBefore(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	c := Cursor{Date: day, Sequence: 5}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), 99), "older date sorts after the cursor")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), 1), "newer date sorts before the cursor")
	assert.True(t, c.Before(day, 4))
	assert.False(t, c.Before(day, 5))
	assert.False(t, c.Before(day, 6))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 50, NormalizeLimit(0, 50, 200))
	assert.Equal(t, 50, NormalizeLimit(-3, 50, 200))
	assert.Equal(t, 10, NormalizeLimit(10, 50, 200))
	assert.Equal(t, 200, NormalizeLimit(1000, 50, 200))
}
