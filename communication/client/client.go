package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"nhooyr.io/websocket"

	"coppit/board"
	"coppit/communication"
	"coppit/game"
)

// Client is one player's connection to a hosted room.
type Client struct {
	conn *websocket.Conn
}

// Dial joins room as playerID. serverURL is the http(s) or ws(s) base address.
func Dial(ctx context.Context, serverURL, room, playerID, name string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/" + url.PathEscape(room) + "/" + url.PathEscape(playerID)
	if name != "" {
		u.RawQuery = url.Values{"name": {name}}.Encode()
	}

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	conn.SetReadLimit(1 << 22)
	return &Client{conn: conn}, nil
}

func (c *Client) Send(ctx context.Context, action communication.ClientAction) error {
	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *Client) send(ctx context.Context, t communication.ActionType, payload any) error {
	action, err := communication.NewAction(t, payload)
	if err != nil {
		return err
	}
	return c.Send(ctx, action)
}

func (c *Client) Roll(ctx context.Context) error {
	return c.send(ctx, communication.RollAction, nil)
}

func (c *Client) SelectPiece(ctx context.Context, stack game.StackID) error {
	return c.send(ctx, communication.SelectPieceAction, communication.SelectPiecePayload{Stack: stack})
}

func (c *Client) SelectDestination(ctx context.Context, node string) error {
	return c.send(ctx, communication.SelectDestinationAction, communication.SelectDestinationPayload{NodeID: node})
}

func (c *Client) SelectDirection(ctx context.Context, dir board.Direction) error {
	return c.send(ctx, communication.SelectDirectionAction, communication.SelectDirectionPayload{Direction: dir})
}

func (c *Client) Reset(ctx context.Context) error {
	return c.send(ctx, communication.ResetAction, nil)
}

// Next blocks for the next server event.
func (c *Client) Next(ctx context.Context) (communication.ServerEvent, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return communication.ServerEvent{}, err
	}
	var event communication.ServerEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return communication.ServerEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

// NextOf skips events until one of type t arrives.
func (c *Client) NextOf(ctx context.Context, t communication.EventType) (communication.ServerEvent, error) {
	for {
		event, err := c.Next(ctx)
		if err != nil {
			return event, err
		}
		if event.Type == t {
			return event, nil
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
