package services

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"quiz-master-backend/internal/models"
	"quiz-master-backend/internal/ws"
)

// Inbound event kinds. The first five come from clients.
const (
	EventCreateSession = "create_session"
	EventStartSession  = "start_session"
	EventNextQuestion  = "next_question"
	EventJoinSession   = "join_session"
	EventSubmitAnswer  = "submit_answer"
	EventDisconnect    = "disconnect"
	eventDeadline      = "deadline"
)

// Outbound message types.
const (
	MsgSessionCreated   = "session_created"
	MsgJoined           = "joined"
	MsgPlayerList       = "player_list"
	MsgGameStarted      = "game_started"
	MsgQuestionStarted  = "question_started"
	MsgAnswerReceived   = "answer_received"
	MsgAnswerProgress   = "answer_progress"
	MsgQuestionResult   = "question_result"
	MsgGameOver         = "game_over"
	MsgPlayerLeft       = "player_left"
	MsgHostDisconnected = "host_disconnected"
	MsgError            = "error"
)

type Event struct {
	Kind      string
	ConnID    string
	Questions []models.Question
	Pack      string
	Code      string
	Name      string
	Answer    int

	// set on deadline events only
	session       *Session
	questionIndex int
}

// Broadcaster is the transport the orchestrator talks through.
type Broadcaster interface {
	Join(code, connID string)
	Leave(code, connID string)
	CloseRoom(code string)
	Broadcast(code string, message ws.WSMessage)
	Send(connID string, message ws.WSMessage)
}

type PackSource interface {
	Questions(name string) ([]models.Question, bool)
}

type HistoryRecorder interface {
	Record(ctx context.Context, result models.GameResult) error
}

type OrchestratorConfig struct {
	TopN           int
	DeadlineBuffer time.Duration
	EventBuffer    int
	Packs          PackSource
	History        HistoryRecorder
}

// Orchestrator owns the registry and every session in it. All mutation
// happens on the goroutine running Run; everything else goes through
// Dispatch.
type Orchestrator struct {
	registry *Registry
	scoring  *ScoringService
	out      Broadcaster
	clock    Clock
	packs    PackSource
	history  HistoryRecorder
	topN     int
	buffer   time.Duration

	events chan Event
	done   chan struct{}
	active atomic.Int64
}

func NewOrchestrator(registry *Registry, scoring *ScoringService, out Broadcaster, clock Clock, cfg OrchestratorConfig) *Orchestrator {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}
	if cfg.DeadlineBuffer <= 0 {
		cfg.DeadlineBuffer = DefaultDeadlineBuffer
	}
	return &Orchestrator{
		registry: registry,
		scoring:  scoring,
		out:      out,
		clock:    clock,
		packs:    cfg.Packs,
		history:  cfg.History,
		topN:     cfg.TopN,
		buffer:   cfg.DeadlineBuffer,
		events:   make(chan Event, cfg.EventBuffer),
		done:     make(chan struct{}),
	}
}

func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-o.events:
			o.Handle(ev)
		}
	}
}

// Dispatch queues an event for the loop. It returns false once the loop has
// stopped.
func (o *Orchestrator) Dispatch(ev Event) bool {
	select {
	case o.events <- ev:
		return true
	case <-o.done:
		return false
	}
}

// ActiveSessions is safe to call from any goroutine.
func (o *Orchestrator) ActiveSessions() int {
	return int(o.active.Load())
}

// Handle processes one event. Only the loop (or a test standing in for it)
// may call this.
func (o *Orchestrator) Handle(ev Event) {
	switch ev.Kind {
	case EventCreateSession:
		o.createSession(ev)
	case EventStartSession:
		o.startSession(ev)
	case EventNextQuestion:
		o.nextQuestion(ev)
	case EventJoinSession:
		o.joinSession(ev)
	case EventSubmitAnswer:
		o.submitAnswer(ev)
	case EventDisconnect:
		o.disconnect(ev)
	case eventDeadline:
		o.deadline(ev)
	default:
		log.Printf("game: unknown event %q from %s", ev.Kind, ev.ConnID)
	}
	o.active.Store(int64(o.registry.Len()))
}

func (o *Orchestrator) createSession(ev Event) {
	questions := ev.Questions
	if ev.Pack != "" {
		var ok bool
		if o.packs != nil {
			questions, ok = o.packs.Questions(ev.Pack)
		}
		if !ok {
			o.sendError(ev.ConnID, ErrUnknownPack)
			return
		}
	}

	sess, err := o.registry.CreateSession(ev.ConnID, questions, o.clock.Now())
	if err != nil {
		o.sendError(ev.ConnID, err)
		return
	}

	o.out.Join(sess.Code, ev.ConnID)
	o.out.Send(ev.ConnID, ws.WSMessage{
		Type: MsgSessionCreated,
		Data: map[string]interface{}{"code": sess.Code, "total": len(sess.Questions)},
	})
	log.Printf("game: %s created with %d questions", sess.Code, len(sess.Questions))
}

func (o *Orchestrator) startSession(ev Event) {
	sess := o.registry.ByHost(ev.ConnID)
	if sess == nil {
		o.sendError(ev.ConnID, ErrInvalidRole)
		return
	}
	if !sess.Start(o.clock.Now()) {
		return
	}

	o.out.Broadcast(sess.Code, ws.WSMessage{Type: MsgGameStarted})
	log.Printf("game: %s started with %d players", sess.Code, len(sess.Players))
	o.advance(sess)
}

func (o *Orchestrator) nextQuestion(ev Event) {
	sess := o.registry.ByHost(ev.ConnID)
	if sess == nil {
		o.sendError(ev.ConnID, ErrInvalidRole)
		return
	}
	if sess.Status != models.SessionStatusPlaying {
		return
	}

	if sess.QuestionOpen(sess.CurrentIndex) {
		o.closeQuestion(sess, sess.CurrentIndex)
	}
	o.advance(sess)
}

func (o *Orchestrator) joinSession(ev Event) {
	player, err := o.registry.AddPlayer(ev.Code, ev.Name, ev.ConnID)
	if err != nil {
		o.sendError(ev.ConnID, err)
		return
	}

	sess := o.registry.ByCode(ev.Code)
	o.out.Join(sess.Code, ev.ConnID)
	o.out.Send(ev.ConnID, ws.WSMessage{
		Type: MsgJoined,
		Data: map[string]string{"code": sess.Code, "name": player.Name},
	})
	o.broadcastPlayers(sess)
}

func (o *Orchestrator) submitAnswer(ev Event) {
	sess := o.registry.ByPlayer(ev.ConnID)
	if sess == nil {
		return
	}

	progress, err := sess.RecordAnswer(ev.ConnID, ev.Answer, o.clock.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidOption) {
			o.sendError(ev.ConnID, err)
			return
		}
		log.Printf("game: %s ignored answer from %s: %v", sess.Code, ev.ConnID, err)
		return
	}

	o.out.Send(ev.ConnID, ws.WSMessage{Type: MsgAnswerReceived})
	o.out.Send(sess.HostID, ws.WSMessage{Type: MsgAnswerProgress, Data: progress})

	if progress.AllAnswered() {
		o.closeQuestion(sess, progress.QuestionIndex)
	}
}

func (o *Orchestrator) disconnect(ev Event) {
	d := o.registry.RemoveConnection(ev.ConnID)
	switch d.Kind {
	case DeparturePlayer:
		o.out.Leave(d.Code, ev.ConnID)
		o.out.Broadcast(d.Code, ws.WSMessage{Type: MsgPlayerLeft, Data: map[string]string{"name": d.Name}})
		o.broadcastPlayers(d.Session)

		// The player who left may have been the last one we were waiting on.
		sess := d.Session
		if sess.QuestionOpen(sess.CurrentIndex) {
			progress := sess.Progress()
			o.out.Send(sess.HostID, ws.WSMessage{Type: MsgAnswerProgress, Data: progress})
			if progress.AllAnswered() {
				o.closeQuestion(sess, progress.QuestionIndex)
			}
		}
	case DepartureHost:
		o.out.Broadcast(d.Code, ws.WSMessage{Type: MsgHostDisconnected})
		o.out.CloseRoom(d.Code)
		log.Printf("game: %s closed, host left", d.Code)
	}
}

// deadline closes the question a timer was armed for, unless the game has
// moved on, been torn down or had its code reused since.
func (o *Orchestrator) deadline(ev Event) {
	sess := ev.session
	if sess == nil || o.registry.ByCode(sess.Code) != sess {
		return
	}
	if !sess.QuestionOpen(ev.questionIndex) {
		return
	}
	o.closeQuestion(sess, ev.questionIndex)
}

func (o *Orchestrator) advance(sess *Session) {
	adv := sess.AdvanceQuestion(o.clock.Now())
	if adv.GameOver {
		o.out.Broadcast(sess.Code, ws.WSMessage{Type: MsgGameOver, Data: adv.Leaderboard})
		log.Printf("game: %s finished", sess.Code)
		o.recordHistory(sess, adv.Leaderboard)
		return
	}
	if adv.Question == nil {
		return
	}

	o.out.Broadcast(sess.Code, ws.WSMessage{Type: MsgQuestionStarted, Data: adv.Question})

	index := sess.CurrentIndex
	o.clock.AfterFunc(deadlineFor(sess.Questions[index], o.buffer), func() {
		o.Dispatch(Event{Kind: eventDeadline, session: sess, questionIndex: index})
	})
}

func (o *Orchestrator) closeQuestion(sess *Session, index int) {
	res, first := o.scoring.CloseQuestion(sess, index)
	if !first {
		return
	}

	o.out.Broadcast(sess.Code, ws.WSMessage{
		Type: MsgQuestionResult,
		Data: QuestionResult{
			QuestionIndex:      res.QuestionIndex,
			CorrectOptionIndex: res.CorrectOptionIndex,
			Leaderboard:        topEntries(res.Leaderboard, o.topN),
		},
	})
}

func (o *Orchestrator) recordHistory(sess *Session, board []LeaderboardEntry) {
	if o.history == nil {
		return
	}

	result := NewGameResult(sess, board, o.clock.Now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.history.Record(ctx, result); err != nil {
			log.Printf("history: failed to record %s: %v", result.Code, err)
		}
	}()
}

func (o *Orchestrator) broadcastPlayers(sess *Session) {
	o.out.Broadcast(sess.Code, ws.WSMessage{Type: MsgPlayerList, Data: sess.PlayerList()})
}

func (o *Orchestrator) sendError(connID string, err error) {
	o.out.Send(connID, ws.WSMessage{
		Type: MsgError,
		Data: map[string]string{"code": ErrorCode(err), "message": err.Error()},
	})
}
