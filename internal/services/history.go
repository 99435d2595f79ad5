package services

import (
	"context"
	"time"

	"quiz-master-backend/internal/models"
	"quiz-master-backend/internal/store"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryService records finished games and serves them back to the HTTP
// API.
type HistoryService struct {
	store store.ResultStore
}

func NewHistoryService(s store.ResultStore) *HistoryService {
	return &HistoryService{store: s}
}

func (s *HistoryService) Record(ctx context.Context, result models.GameResult) error {
	return s.store.Save(ctx, &result)
}

// List returns the most recent games. limit is clamped to
// [1, MaxHistoryLimit]; zero or less means DefaultHistoryLimit.
func (s *HistoryService) List(ctx context.Context, limit int) ([]models.GameResult, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	results, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.GameResult{}
	}
	return results, nil
}

func (s *HistoryService) Get(ctx context.Context, code string) (*models.GameResult, error) {
	return s.store.GetByCode(ctx, code)
}

// NewGameResult snapshots a finished session and its final leaderboard.
func NewGameResult(sess *Session, board []LeaderboardEntry, finishedAt time.Time) models.GameResult {
	result := models.GameResult{
		ID:            uuid.NewString(),
		Code:          sess.Code,
		QuestionCount: len(sess.Questions),
		PlayerCount:   len(board),
		StartedAt:     sess.StartedAt,
		FinishedAt:    finishedAt,
		Entries:       make([]models.GameResultEntry, len(board)),
	}
	for i, e := range board {
		result.Entries[i] = models.GameResultEntry{
			Rank:                     e.Position,
			Name:                     e.Name,
			Score:                    e.Score,
			TotalResponseTimeSeconds: e.TotalTime,
		}
	}
	return result
}
