package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"quiz-master-backend/internal/models"
	"quiz-master-backend/internal/services"
)

type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type createSessionData struct {
	Questions []models.Question `json:"questions"`
	Pack      string            `json:"pack"`
}

type joinSessionData struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type submitAnswerData struct {
	Answer *int `json:"answer"`
}

var errMissingData = errors.New("missing data")

// decodeEvent turns a raw client frame into an orchestrator event. Only the
// fields each type needs are read; anything else in the payload is ignored.
func decodeEvent(connID string, raw []byte) (services.Event, error) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return services.Event{}, fmt.Errorf("malformed frame: %w", err)
	}

	ev := services.Event{Kind: frame.Type, ConnID: connID}
	switch frame.Type {
	case services.EventStartSession, services.EventNextQuestion:
		return ev, nil

	case services.EventCreateSession:
		var data createSessionData
		if err := decodeData(frame.Data, &data, false); err != nil {
			return services.Event{}, err
		}
		ev.Questions = data.Questions
		ev.Pack = data.Pack
		return ev, nil

	case services.EventJoinSession:
		var data joinSessionData
		if err := decodeData(frame.Data, &data, true); err != nil {
			return services.Event{}, err
		}
		if data.Code == "" {
			return services.Event{}, errors.New("code is required")
		}
		ev.Code = data.Code
		ev.Name = data.Name
		return ev, nil

	case services.EventSubmitAnswer:
		var data submitAnswerData
		if err := decodeData(frame.Data, &data, true); err != nil {
			return services.Event{}, err
		}
		if data.Answer == nil {
			return services.Event{}, errors.New("answer is required")
		}
		ev.Answer = *data.Answer
		return ev, nil

	default:
		return services.Event{}, fmt.Errorf("unknown message type %q", frame.Type)
	}
}

func decodeData(data json.RawMessage, v interface{}, required bool) error {
	if len(data) == 0 || string(data) == "null" {
		if required {
			return errMissingData
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed data: %w", err)
	}
	return nil
}
