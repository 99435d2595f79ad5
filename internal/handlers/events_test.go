package handlers

import (
	"strings"
	"testing"

	"quiz-master-backend/internal/services"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		check   func(t *testing.T, ev services.Event)
		wantErr string
	}{
		{
			name: "start",
			raw:  `{"type":"start_session"}`,
			check: func(t *testing.T, ev services.Event) {
				if ev.Kind != services.EventStartSession {
					t.Errorf("Kind = %q", ev.Kind)
				}
			},
		},
		{
			name: "create inline",
			raw:  `{"type":"create_session","data":{"questions":[{"question":"2+2?","options":["3","4"],"answer":1,"time":10}]}}`,
			check: func(t *testing.T, ev services.Event) {
				if len(ev.Questions) != 1 || ev.Questions[0].CorrectOptionIndex != 1 || ev.Questions[0].TimeLimitSeconds != 10 {
					t.Errorf("Questions = %+v", ev.Questions)
				}
			},
		},
		{
			name: "create from pack",
			raw:  `{"type":"create_session","data":{"pack":"capitals"}}`,
			check: func(t *testing.T, ev services.Event) {
				if ev.Pack != "capitals" || ev.Questions != nil {
					t.Errorf("event = %+v", ev)
				}
			},
		},
		{
			name: "create without data",
			raw:  `{"type":"create_session"}`,
			check: func(t *testing.T, ev services.Event) {
				if ev.Kind != services.EventCreateSession {
					t.Errorf("Kind = %q", ev.Kind)
				}
			},
		},
		{
			name: "join",
			raw:  `{"type":"join_session","data":{"code":"123456","name":"Ann","extra":true}}`,
			check: func(t *testing.T, ev services.Event) {
				if ev.Code != "123456" || ev.Name != "Ann" {
					t.Errorf("event = %+v", ev)
				}
			},
		},
		{
			name: "answer zero",
			raw:  `{"type":"submit_answer","data":{"answer":0}}`,
			check: func(t *testing.T, ev services.Event) {
				if ev.Answer != 0 || ev.Kind != services.EventSubmitAnswer {
					t.Errorf("event = %+v", ev)
				}
			},
		},
		{name: "not json", raw: `hello`, wantErr: "malformed frame"},
		{name: "unknown type", raw: `{"type":"deadline"}`, wantErr: "unknown message type"},
		{name: "join without data", raw: `{"type":"join_session"}`, wantErr: "missing data"},
		{name: "join without code", raw: `{"type":"join_session","data":{"name":"Ann"}}`, wantErr: "code is required"},
		{name: "answer missing", raw: `{"type":"submit_answer","data":{}}`, wantErr: "answer is required"},
		{name: "answer not a number", raw: `{"type":"submit_answer","data":{"answer":"b"}}`, wantErr: "malformed data"},
		{name: "questions wrong shape", raw: `{"type":"create_session","data":{"questions":{}}}`, wantErr: "malformed data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeEvent("conn-1", []byte(tt.raw))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.ConnID != "conn-1" {
				t.Errorf("ConnID = %q", ev.ConnID)
			}
			tt.check(t, ev)
		})
	}
}
