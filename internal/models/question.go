package models

import (
	"errors"
	"strings"
)

// Question is one entry of a session's question list. Field names on the wire
// follow the create page of the web client.
type Question struct {
	Prompt             string   `json:"question" yaml:"question"`
	Media              string   `json:"image,omitempty" yaml:"image,omitempty"`
	Options            []string `json:"options" yaml:"options"`
	CorrectOptionIndex int      `json:"answer" yaml:"answer"`
	TimeLimitSeconds   int      `json:"time" yaml:"time"`
	PointValue         int      `json:"points,omitempty" yaml:"points,omitempty"`
}

// Points returns the value awarded for a correct answer. Unset means 1.
func (q Question) Points() int {
	if q.PointValue <= 0 {
		return 1
	}
	return q.PointValue
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("prompt is required")
	}
	if len(q.Options) < 2 {
		return errors.New("at least two options are required")
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return errors.New("answer must index one of the options")
	}
	if q.TimeLimitSeconds <= 0 {
		return errors.New("time limit must be positive")
	}
	return nil
}
