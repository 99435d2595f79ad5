package models

import "time"

// GameResult is the stored outcome of a finished session.
type GameResult struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	Code          string            `gorm:"size:6;index" json:"code"`
	QuestionCount int               `gorm:"not null" json:"question_count"`
	PlayerCount   int               `gorm:"not null" json:"player_count"`
	StartedAt     time.Time         `json:"started_at"`
	FinishedAt    time.Time         `gorm:"index" json:"finished_at"`
	Entries       []GameResultEntry `gorm:"foreignKey:GameResultID;constraint:OnDelete:CASCADE" json:"entries"`
}

type GameResultEntry struct {
	ID                       uint    `gorm:"primaryKey" json:"-"`
	GameResultID             string  `gorm:"size:36;not null;index" json:"-"`
	Rank                     int     `gorm:"not null" json:"rank"`
	Name                     string  `gorm:"size:100;not null" json:"name"`
	Score                    int     `gorm:"not null;default:0" json:"score"`
	TotalResponseTimeSeconds float64 `gorm:"not null;default:0" json:"total_time"`
}
