package models

// Player is a participant of a live session, keyed by connection id.
type Player struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Score                    int     `json:"score"`
	Streak                   int     `json:"streak"`
	LastPointsAwarded        int     `json:"last_points"`
	TotalResponseTimeSeconds float64 `json:"total_time"`

	// JoinedSeq orders players that tie on score and time.
	JoinedSeq int `json:"-"`
}
