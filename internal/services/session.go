package services

import (
	"time"

	"quiz-master-backend/internal/models"
)

// Session is one running game. It is owned by the orchestrator loop and is
// never touched from any other goroutine.
type Session struct {
	Code              string
	HostID            string
	Status            models.SessionStatus
	Questions         []models.Question
	CurrentIndex      int
	QuestionStartedAt time.Time
	Players           map[string]*models.Player
	Answers           map[int]map[string]models.Answer
	CreatedAt         time.Time
	StartedAt         time.Time

	closed  map[int]*QuestionResult
	joinSeq int
}

type QuestionPayload struct {
	Question string   `json:"question"`
	Image    string   `json:"image,omitempty"`
	Options  []string `json:"options"`
	Time     int      `json:"time"`
	Number   int      `json:"number"`
	Total    int      `json:"total"`
}

// Advance is what AdvanceQuestion produced: either the next question or the
// final leaderboard.
type Advance struct {
	GameOver    bool
	Question    *QuestionPayload
	Leaderboard []LeaderboardEntry
}

type AnswerProgress struct {
	QuestionIndex int `json:"-"`
	Count         int `json:"count"`
	Total         int `json:"total"`
}

func (p AnswerProgress) AllAnswered() bool {
	return p.Total > 0 && p.Count >= p.Total
}

func newSession(code, hostID string, questions []models.Question, now time.Time) *Session {
	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	return &Session{
		Code:         code,
		HostID:       hostID,
		Status:       models.SessionStatusLobby,
		Questions:    qs,
		CurrentIndex: -1,
		Players:      make(map[string]*models.Player),
		Answers:      make(map[int]map[string]models.Answer),
		CreatedAt:    now,
		closed:       make(map[int]*QuestionResult),
	}
}

// Start moves a lobby into play. Outside the lobby it does nothing and
// reports false.
func (s *Session) Start(now time.Time) bool {
	if s.Status != models.SessionStatusLobby {
		return false
	}
	s.Status = models.SessionStatusPlaying
	s.CurrentIndex = -1
	s.QuestionStartedAt = time.Time{}
	s.StartedAt = now
	return true
}

func (s *Session) AdvanceQuestion(now time.Time) Advance {
	if s.Status != models.SessionStatusPlaying {
		return Advance{}
	}

	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Questions) {
		s.Status = models.SessionStatusFinished
		s.QuestionStartedAt = time.Time{}
		return Advance{GameOver: true, Leaderboard: rankPlayers(s.Players)}
	}

	q := s.Questions[s.CurrentIndex]
	s.QuestionStartedAt = now

	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return Advance{
		Question: &QuestionPayload{
			Question: q.Prompt,
			Image:    q.Media,
			Options:  options,
			Time:     q.TimeLimitSeconds,
			Number:   s.CurrentIndex + 1,
			Total:    len(s.Questions),
		},
	}
}

// QuestionOpen reports whether index is the current question and has not
// been closed yet.
func (s *Session) QuestionOpen(index int) bool {
	if s.Status != models.SessionStatusPlaying {
		return false
	}
	if index < 0 || index >= len(s.Questions) || index != s.CurrentIndex {
		return false
	}
	_, done := s.closed[index]
	return !done
}

func (s *Session) RecordAnswer(connID string, optionIndex int, now time.Time) (AnswerProgress, error) {
	if !s.QuestionOpen(s.CurrentIndex) {
		return AnswerProgress{}, ErrNoActiveQuestion
	}
	if _, ok := s.Players[connID]; !ok {
		return AnswerProgress{}, ErrInvalidRole
	}

	index := s.CurrentIndex
	ledger := s.Answers[index]
	if _, dup := ledger[connID]; dup {
		return AnswerProgress{}, ErrDuplicateAnswer
	}
	if optionIndex < 0 || optionIndex >= len(s.Questions[index].Options) {
		return AnswerProgress{}, ErrInvalidOption
	}

	elapsed := now.Sub(s.QuestionStartedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if ledger == nil {
		ledger = make(map[string]models.Answer)
		s.Answers[index] = ledger
	}
	ledger[connID] = models.Answer{OptionIndex: optionIndex, ResponseTimeSeconds: elapsed}

	return s.Progress(), nil
}

// Progress counts answers to the current question from players still in
// the session.
func (s *Session) Progress() AnswerProgress {
	p := AnswerProgress{QuestionIndex: s.CurrentIndex, Total: len(s.Players)}
	for id := range s.Answers[s.CurrentIndex] {
		if _, ok := s.Players[id]; ok {
			p.Count++
		}
	}
	return p
}

// PlayerList returns the players in join order.
func (s *Session) PlayerList() []models.Player {
	list := make([]models.Player, 0, len(s.Players))
	for _, p := range s.Players {
		list = append(list, *p)
	}
	sortByJoin(list)
	return list
}

func (s *Session) addPlayer(connID, name string) *models.Player {
	s.joinSeq++
	p := &models.Player{ID: connID, Name: name, JoinedSeq: s.joinSeq}
	s.Players[connID] = p
	return p
}

func (s *Session) nameTaken(name string) bool {
	for _, p := range s.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}
