package services

import (
	"sort"
	"sync"
	"time"

	"quiz-master-backend/internal/models"
	"quiz-master-backend/internal/ws"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	at    time.Time
	f     func()
	fired bool
}

func newManualClock() *manualClock {
	return &manualClock{now: epoch}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, &manualTimer{at: c.now.Add(d), f: f})
}

// Advance moves time forward and runs due callbacks in deadline order on the
// calling goroutine.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired {
			n++
		}
	}
	return n
}

type sent struct {
	To  string // connection id or "room:<code>"
	Msg ws.WSMessage
}

// recorder is a Broadcaster that remembers everything it was asked to do.
type recorder struct {
	rooms  map[string]map[string]bool
	frames []sent
}

func newRecorder() *recorder {
	return &recorder{rooms: make(map[string]map[string]bool)}
}

func (r *recorder) Join(code, connID string) {
	if r.rooms[code] == nil {
		r.rooms[code] = make(map[string]bool)
	}
	r.rooms[code][connID] = true
}

func (r *recorder) Leave(code, connID string) {
	delete(r.rooms[code], connID)
}

func (r *recorder) CloseRoom(code string) {
	delete(r.rooms, code)
}

func (r *recorder) Broadcast(code string, msg ws.WSMessage) {
	r.frames = append(r.frames, sent{To: "room:" + code, Msg: msg})
}

func (r *recorder) Send(connID string, msg ws.WSMessage) {
	r.frames = append(r.frames, sent{To: connID, Msg: msg})
}

func (r *recorder) ofType(typ string) []sent {
	var out []sent
	for _, f := range r.frames {
		if f.Msg.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func (r *recorder) last(typ string) (sent, bool) {
	all := r.ofType(typ)
	if len(all) == 0 {
		return sent{}, false
	}
	return all[len(all)-1], true
}

func (r *recorder) reset() {
	r.frames = nil
}

func question(prompt string, answer, seconds int) models.Question {
	return models.Question{
		Prompt:             prompt,
		Options:            []string{"a", "b", "c"},
		CorrectOptionIndex: answer,
		TimeLimitSeconds:   seconds,
	}
}

// fixedCodes hands out the given codes in order, then repeats the last one.
func fixedCodes(codes ...string) func() string {
	i := 0
	return func() string {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c
	}
}
