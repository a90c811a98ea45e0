package common

import (
	"fmt"
	"strconv"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// ParseID parses a positive integer path or query id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// NormalizeTime converts to UTC at whole-second precision, the resolution
// every stored schedule time uses.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func Ptr[T any](v T) *T {
	return &v
}
