package services

import (
	"time"

	"quiz-master-backend/internal/models"
)

// DefaultDeadlineBuffer is added to every question's time limit so answers
// sent right at the end of the countdown still arrive in time.
const DefaultDeadlineBuffer = time.Second

// Clock is the time source of the orchestrator. AfterFunc callbacks run on
// their own goroutine and must only hand work back to the event loop.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

type realClock struct{}

func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

func deadlineFor(q models.Question, buffer time.Duration) time.Duration {
	return time.Duration(q.TimeLimitSeconds)*time.Second + buffer
}
