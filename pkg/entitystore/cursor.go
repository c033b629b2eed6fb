package entitystore

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Cursors are opaque to callers. Internally a cursor carries the sequence
// number of the last index entry returned, so removing earlier ids never
// shifts later pages.

const cursorPrefix = "seq:"

func encodeCursor(seq int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.FormatInt(seq, 10)))
}

// decodeCursor returns the sequence to resume after. An empty cursor means
// the start of the index.
func decodeCursor(entity, cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || !strings.HasPrefix(string(raw), cursorPrefix) {
		return 0, InvalidArgument(entity, "malformed cursor")
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(string(raw), cursorPrefix), 10, 64)
	if err != nil || seq < 0 {
		return 0, InvalidArgument(entity, "malformed cursor")
	}
	return seq, nil
}
