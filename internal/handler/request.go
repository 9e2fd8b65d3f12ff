package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/templui/goaltrack/internal/model"
)

const dateOnly = "2006-01-02"

// date accepts either a calendar date ("2026-12-31") or an RFC 3339 instant.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}

	for _, layout := range []string{time.RFC3339Nano, dateOnly} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// optionalDate converts a decoded optional date into the model's shape.
func optionalDate(o model.Optional[*date]) model.Optional[*time.Time] {
	if !o.Set {
		return model.Optional[*time.Time]{}
	}
	return model.Some(o.Value.ptr())
}

type goalIDsRequest struct {
	GoalIDs []int64 `json:"goal_ids"`
}
