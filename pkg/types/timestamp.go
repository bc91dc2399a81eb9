package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coolbeans/nomiki/pkg/fsutil"
)

// timestampLayouts are accepted when reading timestamps. Files written by
// older tools carry naive local timestamps without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an RFC 3339 or naive ISO 8601 timestamp. Naive
// values are taken as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// Timestamp is a time that is written as RFC 3339 and read with
// ParseTimestamp.
type Timestamp struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return fsutil.Marshal(t.UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = ts
	return nil
}
