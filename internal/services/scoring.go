package services

import (
	"sort"

	"quiz-master-backend/internal/models"
)

type LeaderboardEntry struct {
	Position   int     `json:"position"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Score      int     `json:"score"`
	Streak     int     `json:"streak"`
	LastPoints int     `json:"last_points"`
	TotalTime  float64 `json:"total_time"`
}

type QuestionResult struct {
	QuestionIndex      int                `json:"-"`
	CorrectOptionIndex int                `json:"correct_answer"`
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
}

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// CloseQuestion scores question index of sess. Only the first call for an
// index mutates players; later calls return the stored result and false.
func (s *ScoringService) CloseQuestion(sess *Session, index int) (*QuestionResult, bool) {
	if res, ok := sess.closed[index]; ok {
		return res, false
	}
	if sess.Status != models.SessionStatusPlaying || index < 0 || index >= len(sess.Questions) {
		return nil, false
	}

	q := sess.Questions[index]
	points := q.Points()
	answers := sess.Answers[index]

	for id, p := range sess.Players {
		a, answered := answers[id]
		if answered && a.OptionIndex == q.CorrectOptionIndex {
			p.Score += points
			p.Streak++
			p.LastPointsAwarded = points
			p.TotalResponseTimeSeconds += a.ResponseTimeSeconds
			continue
		}
		p.Streak = 0
		p.LastPointsAwarded = 0
	}

	res := &QuestionResult{
		QuestionIndex:      index,
		CorrectOptionIndex: q.CorrectOptionIndex,
		Leaderboard:        rankPlayers(sess.Players),
	}
	sess.closed[index] = res
	return res, true
}

func (s *ScoringService) Leaderboard(sess *Session) []LeaderboardEntry {
	return rankPlayers(sess.Players)
}

// rankPlayers orders by score desc, then cumulative response time asc, then
// join order.
func rankPlayers(players map[string]*models.Player) []LeaderboardEntry {
	list := make([]models.Player, 0, len(players))
	for _, p := range players {
		list = append(list, *p)
	}

	sort.Slice(list, func(a, b int) bool {
		if list[a].Score != list[b].Score {
			return list[a].Score > list[b].Score
		}
		if list[a].TotalResponseTimeSeconds != list[b].TotalResponseTimeSeconds {
			return list[a].TotalResponseTimeSeconds < list[b].TotalResponseTimeSeconds
		}
		return list[a].JoinedSeq < list[b].JoinedSeq
	})

	entries := make([]LeaderboardEntry, len(list))
	for i, p := range list {
		entries[i] = LeaderboardEntry{
			Position:   i + 1,
			ID:         p.ID,
			Name:       p.Name,
			Score:      p.Score,
			Streak:     p.Streak,
			LastPoints: p.LastPointsAwarded,
			TotalTime:  p.TotalResponseTimeSeconds,
		}
	}
	return entries
}

func sortByJoin(list []models.Player) {
	sort.Slice(list, func(a, b int) bool {
		return list[a].JoinedSeq < list[b].JoinedSeq
	})
}

// topEntries truncates a leaderboard to at most n entries. n <= 0 keeps all.
func topEntries(entries []LeaderboardEntry, n int) []LeaderboardEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
