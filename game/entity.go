package game

import (
	"fmt"
	"strings"

	"coppit/board"
)

type Piece struct {
	ID    string      `json:"id"`
	Color board.Color `json:"color"`
	Owner string      `json:"owner"`
}

func PieceID(c board.Color, n int) string {
	return fmt.Sprintf("%s_%d", strings.ToLower(string(c)), n)
}

// StackID is a handle into the state's stack arena. Handles are never reused within a game.
type StackID int

const (
	// ReserveStack selects the acting player's reserve.
	ReserveStack StackID = 0
	NoSelection  StackID = -1
)

// Stack is a pile of pieces on one node, bottom first. The top piece's color controls it.
type Stack struct {
	ID     StackID `json:"id"`
	Node   string  `json:"node"`
	Pieces []Piece `json:"pieces"`
}

func (s Stack) IsReserve() bool {
	return s.ID == ReserveStack
}

func (s Stack) Top() Piece {
	return s.Pieces[len(s.Pieces)-1]
}

func (s Stack) Controller() board.Color {
	if len(s.Pieces) == 0 {
		return ""
	}
	return s.Top().Color
}

// Captives are the pieces not of the controller's color.
func (s Stack) Captives() []Piece {
	controller := s.Controller()
	captives := []Piece{}
	for _, p := range s.Pieces {
		if p.Color != controller {
			captives = append(captives, p)
		}
	}
	return captives
}

func (s Stack) HasCaptives() bool {
	controller := s.Controller()
	for _, p := range s.Pieces {
		if p.Color != controller {
			return true
		}
	}
	return false
}

func (s Stack) copy() Stack {
	pieces := make([]Piece, len(s.Pieces))
	copy(pieces, s.Pieces)
	s.Pieces = pieces
	return s
}

type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Color     board.Color `json:"color"`
	Bot       bool        `json:"is_bot"`
	Connected bool        `json:"connected"`
	// Reserve holds the player's own pieces waiting to deploy plus banked captives.
	Reserve []Piece `json:"reserve"`
}

// Score counts own-color pieces in the reserve.
func (p Player) Score() int {
	score := 0
	for _, piece := range p.Reserve {
		if piece.Color == p.Color {
			score++
		}
	}
	return score
}

// Banked returns the foreign-color pieces in the reserve.
func (p Player) Banked() []Piece {
	banked := []Piece{}
	for _, piece := range p.Reserve {
		if piece.Color != p.Color {
			banked = append(banked, piece)
		}
	}
	return banked
}

func (p Player) Points() int {
	return len(p.Banked())
}

// deployable returns the index of the front-most own-color piece in the reserve, or -1.
func (p Player) deployable() int {
	for i, piece := range p.Reserve {
		if piece.Color == p.Color {
			return i
		}
	}
	return -1
}

func (p Player) copy() Player {
	reserve := make([]Piece, len(p.Reserve))
	copy(reserve, p.Reserve)
	p.Reserve = reserve
	return p
}
