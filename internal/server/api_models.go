package server

import "github.com/raysh454/phishview/internal/render"

// RenderRequest is the payload for POST /api/render and for websocket
// submissions.
type RenderRequest struct {
	URL string `json:"url" example:"https://paypa1-login.example.com/verify"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error  string `json:"error" example:"URL is required"`
	Detail string `json:"detail,omitempty" example:"analysis backend returned HTTP 500"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Event types pushed over /ws.
const (
	EventHello   = "hello"
	EventBusy    = "busy"
	EventIdle    = "idle"
	EventResult  = "result"
	EventInvalid = "invalid"
	EventAlert   = "alert"
	EventError   = "error"
)

// Event is one websocket push. Seq is the newest accepted submission when the
// event was emitted; zero before the first one.
type Event struct {
	Type    string        `json:"type" example:"result"`
	Seq     uint64        `json:"seq" example:"3"`
	Session string        `json:"session,omitempty" example:"5b0c7e2e-8f0e-4b57-9d55-5f1c1b0f0c1a"`
	Message string        `json:"message,omitempty"`
	View    *render.State `json:"view,omitempty"`
}
