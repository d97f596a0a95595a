package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Date is a calendar date as the backend sends it. It is kept as opaque text
// and compared by exact value; some backends send day quotas as bare numbers,
// which are stored in their decimal form.
type Date string

func (d Date) String() string { return string(d) }

// IsZero reports whether the date is empty
func (d Date) IsZero() bool { return d == "" }

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Date(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("date must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("invalid numeric date %q", n)
	}
	*d = Date(n.String())
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}
