package recipes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// isoLayouts are tried in order. Zone-less values are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// isoTime decodes ISO-8601 strings. null and "" decode to the zero time.
type isoTime struct {
	time.Time
}

func (t *isoTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseISO(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseISO(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ISO-8601 timestamp %q", s)
}
