package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack-trainer/internal/simulation"
	"github.com/lox/blackjack-trainer/internal/stats"
	"github.com/lox/blackjack-trainer/internal/strategy"
	"github.com/lox/blackjack-trainer/internal/trainer"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one WebSocket client and its trainer session. Each
// connection owns exactly one session.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	session   *trainer.Session
	logger    *log.Logger
	clock     quartz.Clock
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	onClose   func(*Connection)
}

// NewConnection creates a new connection wrapper with its own session.
func NewConnection(conn *websocket.Conn, logger *log.Logger, clock quartz.Clock) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		session: trainer.NewSession(logger),
		logger:  logger.WithPrefix("conn"),
		clock:   clock,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Session exposes the connection's trainer session.
func (c *Connection) Session() *trainer.Session {
	return c.session
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.session.CancelSimulation()
		c.cancel()
		close(c.send)
		err = c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client. The ping ticker runs
// on the injected clock so tests can drive it.
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeAddCard:
		var data AddCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse add_card data")
			return
		}
		source := trainer.Source(data.Source)
		if data.Source == "" {
			source = trainer.SourceTable
		}
		if _, err := c.session.AddCard(data.Rank, source); err != nil {
			c.sendError("invalid_card", err.Error())
			return
		}
		c.sendState()

	case MessageTypeRemoveLastCard:
		c.session.RemoveLast()
		c.sendState()

	case MessageTypeClearCards:
		c.session.Clear()
		c.sendState()

	case MessageTypeToggleCard:
		var data ToggleCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse toggle_card data")
			return
		}
		if err := c.session.ToggleVisible(data.Index); err != nil {
			c.sendError("invalid_index", err.Error())
			return
		}
		c.sendState()

	case MessageTypeSelectSystem:
		var data SelectSystemData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse select_system data")
			return
		}
		if err := c.session.SelectSystem(data.SystemID); err != nil {
			c.sendError("unknown_system", err.Error())
			return
		}
		c.sendState()

	case MessageTypeSetDecks:
		var data SetDecksData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse set_decks data")
			return
		}
		if err := c.session.SetDecks(data.Decks); err != nil {
			c.sendError("invalid_decks", err.Error())
			return
		}
		c.sendState()

	case MessageTypeRecordOutcome:
		var data RecordOutcomeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse record_outcome data")
			return
		}
		outcome, err := stats.ParseOutcome(data.Outcome)
		if err != nil {
			c.sendError("invalid_outcome", err.Error())
			return
		}
		c.session.RecordOutcome(outcome)
		c.sendState()

	case MessageTypeResetStats:
		c.session.ResetStats()
		c.sendState()

	case MessageTypeGetState:
		c.sendState()

	case MessageTypeStartSimulation:
		var data StartSimulationData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse start_simulation data")
			return
		}
		c.handleStartSimulation(data)

	case MessageTypeCancelSimulation:
		c.session.CancelSimulation()

	default:
		c.sendError("unknown_message", "unknown message type: "+msg.Type.String())
	}
}

// handleStartSimulation validates the request, starts the run and streams
// its events back. One simulation per session; concurrent starts are
// rejected with an error message.
func (c *Connection) handleStartSimulation(data StartSimulationData) {
	params, err := simulationParams(data, c.session.Decks())
	if err != nil {
		c.sendError("invalid_simulation", err.Error())
		return
	}

	events, err := c.session.StartSimulation(c.ctx, params)
	if err != nil {
		c.sendError("simulation_rejected", err.Error())
		return
	}

	go func() {
		for ev := range events {
			switch ev.Type {
			case simulation.EventProgress:
				c.sendData(MessageTypeSimProgress, SimProgressData{Percent: ev.Percent, Partial: ev.Partial})
			case simulation.EventResult:
				c.sendData(MessageTypeSimResult, ev.Result)
			case simulation.EventCancelled:
				c.sendData(MessageTypeSimCancelled, ev.Result)
			case simulation.EventError:
				c.sendData(MessageTypeSimError, ErrorData{Code: "simulation_failed", Message: ev.Err.Error()})
			}
		}
	}()
}

// simulationParams converts a wire request into validated runner params.
func simulationParams(data StartSimulationData, sessionDecks int) (simulation.Params, error) {
	playerCards, err := parseCardList(data.PlayerCards)
	if err != nil {
		return simulation.Params{}, err
	}
	upcard, err := parseCard(data.DealerUpcard)
	if err != nil {
		return simulation.Params{}, err
	}
	action, err := strategy.ParseAction(data.Action)
	if err != nil {
		return simulation.Params{}, err
	}

	numDecks := data.NumDecks
	if numDecks == 0 {
		numDecks = sessionDecks
	}
	numSims := data.NumSimulations
	if numSims == 0 {
		numSims = 10000
	}

	return simulation.Params{
		PlayerCards:    playerCards,
		DealerUpcard:   upcard,
		NumDecks:       numDecks,
		NumSimulations: numSims,
		Action:         action,
	}, nil
}

func (c *Connection) sendState() {
	c.sendData(MessageTypeState, stateData(c.session))
}

func (c *Connection) sendError(code, message string) {
	c.sendData(MessageTypeError, ErrorData{Code: code, Message: message})
}

func (c *Connection) sendData(mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		c.logger.Error("failed to encode message", "type", mt, "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
