package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
)

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = &Patterns{}

// MarshalJSON encodes the nonzero rows of p keyed by run length, each
// row listing the closed, half-open and open values.
func (p *Patterns) MarshalJSON() ([]byte, error) {
	h := make(map[string][3]int64)
	for run, row := range p {
		if row != ([3]int64{}) {
			h[strconv.Itoa(run)] = row
		}
	}
	return json.Marshal(h)
}

// UnmarshalJSON overwrites the rows present in bs and leaves the rest
// of p alone.
func (p *Patterns) UnmarshalJSON(bs []byte) error {
	h := make(map[string][3]int64)
	if e := json.Unmarshal(bs, &h); e != nil {
		return e
	}
	for k, v := range h {
		run, e := strconv.Atoi(k)
		if e != nil || run < 1 || run > maxRun {
			return fmt.Errorf("unknown run length: %q", k)
		}
		p[run] = v
	}
	return nil
}
