package services

import "errors"

var (
	ErrSessionNotFound       = errors.New("game not found")
	ErrSessionAlreadyStarted = errors.New("game already started")
	ErrNameTaken             = errors.New("name taken")
	ErrInvalidRole           = errors.New("connection is not allowed to do that")
	ErrDuplicateAnswer       = errors.New("answer already recorded")
	ErrNoActiveQuestion      = errors.New("no active question")
	ErrInvalidQuestions      = errors.New("invalid questions")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidOption         = errors.New("invalid option")
	ErrUnknownPack           = errors.New("unknown question pack")
)

// ErrorCode maps a request error to the code sent back to the client.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrSessionAlreadyStarted):
		return "session_already_started"
	case errors.Is(err, ErrNameTaken):
		return "name_taken"
	case errors.Is(err, ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, ErrInvalidQuestions):
		return "invalid_questions"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, ErrUnknownPack):
		return "unknown_pack"
	default:
		return "bad_request"
	}
}
