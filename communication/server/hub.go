package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"coppit/board"
	"coppit/communication"
	"coppit/game"
	"coppit/gamemaster"
)

const (
	sendBuffer   = 64
	pingInterval = 15 * time.Second
	leaveTimeout = 5 * time.Second
)

// Hub connects websocket clients to game rooms.
type Hub struct {
	gm           *gamemaster.GameMaster
	board        *board.Board
	allowOrigins map[string]bool
}

func NewHub(gm *gamemaster.GameMaster, b *board.Board, allow []string) *Hub {
	origins := map[string]bool{}
	for _, a := range allow {
		if a != "" {
			origins[a] = true
		}
	}
	return &Hub{gm: gm, board: b, allowOrigins: origins}
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/{room}/{player}", h.ServeWS)
	mux.HandleFunc("POST /rooms", h.createRoom)
	mux.HandleFunc("GET /board", h.serveBoard)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (h *Hub) createRoom(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"room_id": h.gm.NewRoomID()})
}

func (h *Hub) serveBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.board)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

type client struct {
	id       uuid.UUID
	playerID string
	room     *gamemaster.Room
	send     chan communication.ServerEvent
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	roomID, playerID := r.PathValue("room"), r.PathValue("player")
	room, err := h.gm.Room(r.Context(), roomID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "server error")

	c := &client{
		id:       uuid.New(),
		playerID: playerID,
		room:     room,
		send:     make(chan communication.ServerEvent, sendBuffer),
	}
	logger := log.With().Str("room", roomID).Str("player", playerID).Str("conn", c.id.String()).Logger()
	logger.Info().Msg("client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	subID, feed := room.Subscribe()
	defer room.Unsubscribe(subID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.write(ctx, conn, feed)
	}()

	res := room.Submit(ctx, gamemaster.Request{Kind: gamemaster.Join, PlayerID: playerID, Name: r.URL.Query().Get("name")})
	if res.Err != nil {
		c.reply(communication.ErrorEvent, communication.Error{Message: res.Err.Error()})
	}

	c.read(ctx, conn)

	// A dropped connection does not undo anything already queued
	leaveCtx, leaveCancel := context.WithTimeout(context.Background(), leaveTimeout)
	room.Submit(leaveCtx, gamemaster.Request{Kind: gamemaster.Leave, PlayerID: playerID})
	leaveCancel()

	cancel()
	<-writerDone
	conn.Close(websocket.StatusNormalClosure, "bye")
	logger.Info().Msg("client disconnected")
}

func (c *client) read(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var action communication.ClientAction
		if err := json.Unmarshal(data, &action); err != nil {
			c.reply(communication.ErrorEvent, communication.Error{Message: "malformed action"})
			continue
		}

		req, err := toRequest(c.playerID, action)
		if err != nil {
			c.reply(communication.ErrorEvent, communication.Error{Message: err.Error()})
			continue
		}

		res := c.room.Submit(ctx, req)
		if res.Err != nil {
			if errors.Is(res.Err, gamemaster.ErrClosed) || ctx.Err() != nil {
				return
			}
			c.reply(communication.ErrorEvent, communication.Error{Message: res.Err.Error()})
			continue
		}

		switch req.Kind {
		case gamemaster.Roll:
			c.reply(communication.LegalPiecesEvent, communication.LegalPieces{Dice: res.State.Dice, Stacks: orEmpty(res.Stacks)})
		case gamemaster.SelectPiece:
			c.reply(communication.LegalDestinationsEvent, communication.LegalDestinations{Stack: req.Stack, Nodes: orEmpty(res.Destinations)})
		}
	}
}

// write is the only goroutine writing to the connection.
func (c *client) write(ctx context.Context, conn *websocket.Conn, feed <-chan gamemaster.Snapshot) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	var last *game.GameState
	for {
		var events []communication.ServerEvent
		select {
		case <-ctx.Done():
			return
		case event := <-c.send:
			events = append(events, event)
		case snap, ok := <-feed:
			if !ok {
				return
			}
			events = snapshotEvents(last, snap)
			last = snap.State
		case <-ping.C:
			_ = conn.Ping(ctx)
			continue
		}

		for _, event := range events {
			data, err := json.Marshal(event)
			if err != nil {
				log.Error().Err(err).Msg("failed to encode event")
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

// snapshotEvents turns a published state into the events every participant sees.
func snapshotEvents(last *game.GameState, snap gamemaster.Snapshot) []communication.ServerEvent {
	events := []communication.ServerEvent{}
	state := snap.State

	if entry, ok := state.LastAction(); ok && entry.Action == game.ActionRoll && (last == nil || len(last.Log) < len(state.Log)) {
		if event, err := communication.NewEvent(communication.DiceRolledEvent, communication.DiceRolled{PlayerID: entry.PlayerID, Value: entry.Value}); err == nil {
			events = append(events, event)
		}
	}
	if event, err := communication.NewEvent(communication.StateUpdateEvent, communication.StateUpdate{State: state, Degraded: snap.Degraded}); err == nil {
		events = append(events, event)
	}
	if state.IsOver() && (last == nil || !last.IsOver()) {
		if event, err := communication.NewEvent(communication.GameOverEvent, communication.GameOver{Winners: state.Winners, Summary: state.Summary()}); err == nil {
			events = append(events, event)
		}
	}
	return events
}

func (c *client) reply(t communication.EventType, payload any) {
	event, err := communication.NewEvent(t, payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode reply")
		return
	}
	select {
	case c.send <- event:
	default:
		log.Warn().Str("player", c.playerID).Str("event", string(t)).Msg("client send buffer full")
	}
}

func toRequest(playerID string, action communication.ClientAction) (gamemaster.Request, error) {
	req := gamemaster.Request{PlayerID: playerID}
	switch action.Type {
	case communication.RollAction:
		req.Kind = gamemaster.Roll
	case communication.ResetAction:
		req.Kind = gamemaster.Reset
	case communication.SelectPieceAction:
		var p communication.SelectPiecePayload
		if err := action.Decode(&p); err != nil {
			return req, err
		}
		req.Kind, req.Stack = gamemaster.SelectPiece, p.Stack
	case communication.SelectDestinationAction:
		var p communication.SelectDestinationPayload
		if err := action.Decode(&p); err != nil {
			return req, err
		}
		req.Kind, req.NodeID = gamemaster.SelectDestination, p.NodeID
	case communication.SelectDirectionAction:
		var p communication.SelectDirectionPayload
		if err := action.Decode(&p); err != nil {
			return req, err
		}
		req.Kind, req.Direction = gamemaster.SelectDirection, p.Direction
	default:
		return req, fmt.Errorf("unknown action %q", action.Type)
	}
	return req, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
