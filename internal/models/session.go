package models

type SessionStatus string

const (
	SessionStatusLobby    SessionStatus = "lobby"
	SessionStatusPlaying  SessionStatus = "playing"
	SessionStatusFinished SessionStatus = "finished"
)
