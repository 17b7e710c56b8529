package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack-trainer/internal/simulation"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants used for the UI-engine protocol
const (
	// Client to server messages
	MessageTypeAddCard          MessageType = "add_card"
	MessageTypeRemoveLastCard   MessageType = "remove_last_card"
	MessageTypeClearCards       MessageType = "clear_cards"
	MessageTypeToggleCard       MessageType = "toggle_card"
	MessageTypeSelectSystem     MessageType = "select_system"
	MessageTypeSetDecks         MessageType = "set_decks"
	MessageTypeGetState         MessageType = "get_state"
	MessageTypeRecordOutcome    MessageType = "record_outcome"
	MessageTypeResetStats       MessageType = "reset_stats"
	MessageTypeStartSimulation  MessageType = "start_simulation"
	MessageTypeCancelSimulation MessageType = "cancel_simulation"

	// Server to client messages
	MessageTypeState        MessageType = "state"
	MessageTypeError        MessageType = "error"
	MessageTypeSimProgress  MessageType = "sim_progress"
	MessageTypeSimResult    MessageType = "sim_result"
	MessageTypeSimCancelled MessageType = "sim_cancelled"
	MessageTypeSimError     MessageType = "sim_error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type AddCardData struct {
	Rank   string `json:"rank"`
	Source string `json:"source,omitempty"`
}

type ToggleCardData struct {
	Index int `json:"index"`
}

type SelectSystemData struct {
	SystemID string `json:"systemId"`
}

type SetDecksData struct {
	Decks int `json:"decks"`
}

type RecordOutcomeData struct {
	Outcome string `json:"outcome"`
}

type StartSimulationData struct {
	PlayerCards    []string `json:"playerCards"`
	DealerUpcard   string   `json:"dealerUpcard"`
	NumDecks       int      `json:"numDecks,omitempty"`
	NumSimulations int      `json:"numSimulations,omitempty"`
	Action         string   `json:"action"`
}

// Server → Client payloads

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CardInfo is one history entry in wire form.
type CardInfo struct {
	Rank    string `json:"rank"`
	Source  string `json:"source"`
	Visible bool   `json:"visible"`
}

// BetInfo is the current betting band recommendation.
type BetInfo struct {
	Label    string  `json:"label"`
	MinUnits float64 `json:"minUnits"`
	MaxUnits float64 `json:"maxUnits"`
}

// HandInfo is an evaluated hand total.
type HandInfo struct {
	Cards []string `json:"cards"`
	Total int      `json:"total"`
	Soft  bool     `json:"soft"`
}

// StatsInfo summarizes the recorded hand outcomes.
type StatsInfo struct {
	TotalHands        int     `json:"totalHands"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Pushes            int     `json:"pushes"`
	Blackjacks        int     `json:"blackjacks"`
	WinRate           float64 `json:"winRate"`
	NetUnits          float64 `json:"netUnits"`
	LongestWinStreak  int     `json:"longestWinStreak"`
	LongestLossStreak int     `json:"longestLossStreak"`
}

// StateData is the full engine state pushed after every mutation.
type StateData struct {
	System         string     `json:"system"`
	Decks          int        `json:"decks"`
	CardsSeen      int        `json:"cardsSeen"`
	RunningCount   float64    `json:"runningCount"`
	TrueCount      float64    `json:"trueCount"`
	DecksRemaining float64    `json:"decksRemaining"`
	Bet            BetInfo    `json:"bet"`
	Player         HandInfo   `json:"player"`
	Dealer         HandInfo   `json:"dealer"`
	History        []CardInfo `json:"history"`
	Stats          StatsInfo  `json:"stats"`
}

type SimProgressData struct {
	Percent float64           `json:"percent"`
	Partial simulation.Counts `json:"partial"`
}
