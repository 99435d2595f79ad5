package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"quiz-master-backend/internal/models"
)

const maxNameLength = 32

type DepartureKind int

const (
	DepartureNone DepartureKind = iota
	DeparturePlayer
	DepartureHost
)

// Departure describes what removing a connection did.
type Departure struct {
	Kind    DepartureKind
	Code    string
	Name    string
	Session *Session
}

// Registry indexes live sessions by code and connections by role. It has no
// locking of its own; the orchestrator loop is its only user.
type Registry struct {
	sessions map[string]*Session
	hosts    map[string]*Session
	players  map[string]*Session
	newCode  func() string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		hosts:    make(map[string]*Session),
		players:  make(map[string]*Session),
		newCode:  randomCode,
	}
}

func (r *Registry) CreateSession(hostID string, questions []models.Question, now time.Time) (*Session, error) {
	if r.HasRole(hostID) {
		return nil, ErrInvalidRole
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrInvalidQuestions, i+1, err)
		}
	}

	code := r.generateUniqueCode()
	sess := newSession(code, hostID, questions, now)
	r.sessions[code] = sess
	r.hosts[hostID] = sess
	return sess, nil
}

func (r *Registry) AddPlayer(code, name, connID string) (*models.Player, error) {
	sess, ok := r.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Status != models.SessionStatusLobby {
		return nil, ErrSessionAlreadyStarted
	}
	if r.HasRole(connID) {
		return nil, ErrInvalidRole
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	if sess.nameTaken(name) {
		return nil, ErrNameTaken
	}

	p := sess.addPlayer(connID, name)
	r.players[connID] = sess
	return p, nil
}

// RemoveConnection drops connID from whatever it belonged to. A departing
// host takes the whole session with it.
func (r *Registry) RemoveConnection(connID string) Departure {
	if sess, ok := r.players[connID]; ok {
		delete(r.players, connID)
		p := sess.Players[connID]
		delete(sess.Players, connID)

		d := Departure{Kind: DeparturePlayer, Code: sess.Code, Session: sess}
		if p != nil {
			d.Name = p.Name
		}
		return d
	}

	if sess, ok := r.hosts[connID]; ok {
		delete(r.hosts, connID)
		if r.sessions[sess.Code] == sess {
			delete(r.sessions, sess.Code)
		}
		for id := range sess.Players {
			if r.players[id] == sess {
				delete(r.players, id)
			}
		}
		return Departure{Kind: DepartureHost, Code: sess.Code, Session: sess}
	}

	return Departure{Kind: DepartureNone}
}

func (r *Registry) ByCode(code string) *Session {
	return r.sessions[code]
}

func (r *Registry) ByHost(connID string) *Session {
	return r.hosts[connID]
}

func (r *Registry) ByPlayer(connID string) *Session {
	return r.players[connID]
}

func (r *Registry) HasRole(connID string) bool {
	_, host := r.hosts[connID]
	_, player := r.players[connID]
	return host || player
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

func (r *Registry) generateUniqueCode() string {
	for {
		code := r.newCode()
		if _, taken := r.sessions[code]; !taken {
			return code
		}
	}
}

func randomCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
