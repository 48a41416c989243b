package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg carries a bearer token. Optional; guests play without one.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// NewGameMsg starts a session. Name may be empty after a successful auth.
type NewGameMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// SelectMsg selects the cell at column X, row Y.
type SelectMsg struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// ClickMsg is a pointer press at (PX, PY) on a surface of SurfaceW x SurfaceH pixels.
type ClickMsg struct {
	Type     string `json:"type"`
	PX       int    `json:"px"`
	PY       int    `json:"py"`
	SurfaceW int    `json:"surfaceW"`
	SurfaceH int    `json:"surfaceH"`
}

// RejoinMsg is sent by the client to rejoin a game after reconnect or page refresh.
type RejoinMsg struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId"`
	RejoinToken string `json:"rejoinToken"`
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AuthOKMsg confirms a token. Rejoined is set when a disconnected game was resumed.
type AuthOKMsg struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Rejoined bool   `json:"rejoined"`
}

// SessionStartedMsg is sent when a new game has been dealt.
type SessionStartedMsg struct {
	Type             string `json:"type"`
	GameID           string `json:"gameId"`
	RejoinToken      string `json:"rejoinToken"`
	Name             string `json:"name"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	SurfaceW         int    `json:"surfaceW"`
	SurfaceH         int    `json:"surfaceH"`
	RevealDurationMS int    `json:"revealDurationMs"`
}
