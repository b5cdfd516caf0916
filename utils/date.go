// utils/date.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

// the backend emits Python isoformat(), with or without an offset
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05",
}

// Timestamp is an instant sent by the backend. Naive values are read as UTC.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp format: %s", s)
}

func (d *Timestamp) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == `null` || str == `""` {
		*d = Timestamp{}
		return nil
	}
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	t, err := ParseTimestamp(str)
	if err != nil {
		return err
	}
	*d = t
	return nil
}

func (d Timestamp) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

// Ptr returns nil for the zero instant.
func (d Timestamp) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d Timestamp) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(time.RFC3339)
}
