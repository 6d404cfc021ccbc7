package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CandidateID identifies a candidate. JSON numbers and strings are both accepted.
type CandidateID string

// UnmarshalJSON accepts 42 as well as "42".
func (id *CandidateID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CandidateID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("candidate id must be a string or number: %w", err)
	}
	*id = CandidateID(n.String())
	return nil
}

// CompareCandidateIDs orders ids ascending. Integer ids compare numerically and sort
// before non-integer ids, which compare lexically. The result is a total order.
func CompareCandidateIDs(a, b CandidateID) int {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return strings.Compare(string(a), string(b))
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(string(a), string(b))
}

// CandidateProfile is the structured profile of one job seeker.
type CandidateProfile struct {
	ID         CandidateID `json:"id" validate:"required"`
	Name       string      `json:"name,omitempty"`
	Headline   string      `json:"headline,omitempty"`
	Summary    string      `json:"summary,omitempty"`
	Experience string      `json:"experience,omitempty"`
	Education  string      `json:"education,omitempty"`
	Resume     string      `json:"resume,omitempty"`
	Skills     []Skill     `json:"skills,omitempty"`
}
