package models

// Answer is the first submission of a player for one question.
type Answer struct {
	OptionIndex         int     `json:"answer"`
	ResponseTimeSeconds float64 `json:"time_taken"`
}
