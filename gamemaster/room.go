package gamemaster

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coppit/board"
	"coppit/game"
	"coppit/player"
	"coppit/store"
)

const queueSize = 64

type envelope struct {
	req   Request
	reply chan Result
}

// Snapshot is a published room state. States are never mutated after publishing.
type Snapshot struct {
	State    *game.GameState
	Degraded bool
}

// Room owns one game. A single goroutine applies requests in arrival order;
// readers only ever see whole published snapshots.
type Room struct {
	ID string

	opts     Options
	store    store.Store
	src      game.Source
	requests chan envelope

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup

	mu       sync.RWMutex
	state    *game.GameState
	degraded bool
	subs     map[uuid.UUID]chan Snapshot

	fillPending bool
}

func newRoom(parent context.Context, id string, state *game.GameState, st store.Store, strategy player.Strategy, botSrc game.Source, opts Options, seed int64) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		ID:       id,
		opts:     opts,
		store:    st,
		src:      game.NewSource(seed),
		requests: make(chan envelope, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		state:    state,
		subs:     map[uuid.UUID]chan Snapshot{},
	}

	r.wg.Add(1)
	go r.watchBots(strategy, botSrc)
	go r.run()
	r.resume(state)
	return r
}

// resume schedules whatever a restored state was waiting for.
func (r *Room) resume(state *game.GameState) {
	if (state.Phase == game.SelectPiecePhase || state.Phase == game.SelectDirectionPhase) && !state.HasLegalMove() {
		r.schedulePass(state)
	}
}

func (r *Room) run() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			return
		case env := <-r.requests:
			env.reply <- r.handle(env.req)
		}
	}
}

// Submit queues a request and waits for its result. Once queued, a request is
// handled even if ctx ends first.
func (r *Room) Submit(ctx context.Context, req Request) Result {
	env := envelope{req: req, reply: make(chan Result, 1)}
	select {
	case r.requests <- env:
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	case <-r.done:
		return Result{Err: ErrClosed}
	}

	select {
	case res := <-env.reply:
		return res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	case <-r.done:
		return Result{Err: ErrClosed}
	}
}

func (r *Room) State() *game.GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{State: r.state, Degraded: r.degraded}
}

// Subscribe returns a feed of published snapshots, starting with the current
// one. A slow reader skips intermediate snapshots rather than blocking the room.
func (r *Room) Subscribe() (uuid.UUID, <-chan Snapshot) {
	id := uuid.New()
	ch := make(chan Snapshot, 16)

	r.mu.Lock()
	defer r.mu.Unlock()
	ch <- Snapshot{State: r.state, Degraded: r.degraded}
	r.subs[id] = ch
	return id, ch
}

func (r *Room) Unsubscribe(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.subs[id]; ok {
		delete(r.subs, id)
		close(ch)
	}
}

func (r *Room) Close() {
	r.cancel()
	<-r.done
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

func (r *Room) handle(req Request) Result {
	cur := r.state

	var next *game.GameState
	var res Result
	switch req.Kind {
	case Join:
		next, res = r.join(cur, req)
	case Leave:
		next, res = r.leave(cur, req)
	case Roll:
		next, res = r.roll(cur, req)
	case SelectPiece:
		next, res = r.selectPiece(cur, req)
	case SelectDestination:
		next, res = r.selectDestination(cur, req)
	case SelectDirection:
		next, res = r.selectDirection(cur, req)
	case Reset:
		next, res = r.reset(cur, req)
	case pass:
		next, res = r.pass(cur, req)
	case fillBot:
		next, res = r.fill(cur, req)
	default:
		res = reject(req.Kind, "unknown action")
	}

	if res.Err != nil {
		log.Debug().Str("room", r.ID).Str("player", req.PlayerID).Err(res.Err).Msg("request rejected")
		res.State = cur
		return res
	}
	if next != cur {
		r.publish(next)
	}
	res.State = next
	return res
}

// publish persists then broadcasts a new state. A failed write keeps the game
// going on the in-memory state and flags the snapshot as degraded.
func (r *Room) publish(next *game.GameState) {
	ctx, cancel := context.WithTimeout(r.ctx, r.opts.StoreTimeout)
	err := r.store.Set(ctx, r.ID, next, r.opts.RoomTTL)
	cancel()
	degraded := err != nil
	if degraded {
		log.Error().Err(err).Str("room", r.ID).Msg("failed to persist room")
	}

	if entry, ok := next.LastAction(); ok {
		log.Debug().Str("room", r.ID).Str("player", entry.PlayerID).Str("action", string(entry.Action)).Int("turn", next.Turn).Msg("state published")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = next
	r.degraded = degraded
	snap := Snapshot{State: next, Degraded: degraded}
	for _, ch := range r.subs {
		offer(ch, snap)
	}
}

// offer sends without blocking, dropping the oldest queued snapshot if needed.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// after submits an internal request once d has passed.
func (r *Room) after(d time.Duration, req Request) {
	time.AfterFunc(d, func() {
		if res := r.Submit(r.ctx, req); res.Err != nil && !IsRejection(res.Err) {
			log.Debug().Str("room", r.ID).Err(res.Err).Str("kind", string(req.Kind)).Msg("scheduled request dropped")
		}
	})
}

func (r *Room) schedulePass(state *game.GameState) {
	p := state.CurrentPlayer()
	if p == nil {
		return
	}
	r.after(r.opts.NoMoveDelay, Request{Kind: pass, PlayerID: p.ID, turn: state.Turn})
}

func (r *Room) scheduleFill(state *game.GameState) {
	if r.opts.BotFillDelay < 0 || r.fillPending || state.Phase != game.WaitingPhase {
		return
	}
	humans := slices.ContainsFunc(state.Players, func(p game.Player) bool { return !p.Bot && p.Connected })
	if !humans {
		return
	}
	r.fillPending = true
	r.after(r.opts.BotFillDelay, Request{Kind: fillBot})
}

func checkTurn(cur *game.GameState, req Request, phases ...game.Phase) (Result, bool) {
	if cur.IsOver() {
		return reject(req.Kind, "game is over"), false
	}
	if !cur.IsTurnOf(req.PlayerID) {
		return reject(req.Kind, "not your turn"), false
	}
	if !slices.Contains(phases, cur.Phase) {
		return reject(req.Kind, "not allowed during %s", cur.Phase), false
	}
	return Result{}, true
}

func (r *Room) join(cur *game.GameState, req Request) (*game.GameState, Result) {
	if req.PlayerID == "" {
		return cur, reject(req.Kind, "player id is required")
	}
	if _, seated := cur.Player(req.PlayerID); seated {
		return cur.SetConnected(req.PlayerID, true), Result{}
	}
	if cur.Phase != game.WaitingPhase {
		return cur, reject(req.Kind, "game already started")
	}
	if len(cur.Players) >= cur.Config.MaxPlayers {
		return cur, reject(req.Kind, "room is full")
	}

	name := req.Name
	if name == "" {
		name = req.PlayerID
	}
	next := cur.AddPlayer(req.PlayerID, name, false, r.src)
	if next == cur {
		return cur, reject(req.Kind, "no color left")
	}
	log.Info().Str("room", r.ID).Str("player", req.PlayerID).Int("seated", len(next.Players)).Msg("player joined")
	r.scheduleFill(next)
	return next, Result{}
}

func (r *Room) leave(cur *game.GameState, req Request) (*game.GameState, Result) {
	if _, seated := cur.Player(req.PlayerID); !seated {
		return cur, reject(req.Kind, "not seated")
	}
	if cur.Phase == game.WaitingPhase {
		return cur.RemovePlayer(req.PlayerID), Result{}
	}
	return cur.SetConnected(req.PlayerID, false), Result{}
}

func (r *Room) roll(cur *game.GameState, req Request) (*game.GameState, Result) {
	if res, ok := checkTurn(cur, req, game.RollPhase); !ok {
		return cur, res
	}
	next := cur.Roll(r.src)
	stacks := next.LegalStacks(req.PlayerID)
	if len(stacks) == 0 {
		r.schedulePass(next)
	}
	return next, Result{Stacks: stacks}
}

func (r *Room) selectPiece(cur *game.GameState, req Request) (*game.GameState, Result) {
	if res, ok := checkTurn(cur, req, game.SelectPiecePhase, game.SelectDirectionPhase); !ok {
		return cur, res
	}
	next := cur.SelectStack(req.Stack)
	if next == cur {
		return cur, reject(req.Kind, "stack %d cannot move", req.Stack)
	}
	return next, Result{Destinations: next.LegalDestinations(req.Stack)}
}

func (r *Room) selectDestination(cur *game.GameState, req Request) (*game.GameState, Result) {
	if res, ok := checkTurn(cur, req, game.SelectDirectionPhase); !ok {
		return cur, res
	}
	next := cur.SelectDestination(req.NodeID)
	if next == cur {
		return cur, reject(req.Kind, "cannot reach %q", req.NodeID)
	}
	return next, Result{}
}

func (r *Room) selectDirection(cur *game.GameState, req Request) (*game.GameState, Result) {
	if res, ok := checkTurn(cur, req, game.SelectDirectionPhase); !ok {
		return cur, res
	}
	if !req.Direction.Valid() || req.Direction == board.Any {
		return cur, reject(req.Kind, "unknown direction %q", req.Direction)
	}
	next := cur.SelectDirection(req.Direction)
	if next == cur {
		return cur, reject(req.Kind, "cannot move %s", req.Direction)
	}
	return next, Result{}
}

func (r *Room) reset(cur *game.GameState, req Request) (*game.GameState, Result) {
	if _, seated := cur.Player(req.PlayerID); !seated {
		return cur, reject(req.Kind, "not seated")
	}
	next := cur.Rematch(r.src)
	log.Info().Str("room", r.ID).Str("player", req.PlayerID).Msg("room reset")
	r.scheduleFill(next)
	return next, Result{}
}

func (r *Room) pass(cur *game.GameState, req Request) (*game.GameState, Result) {
	if cur.Turn != req.turn || !cur.IsTurnOf(req.PlayerID) {
		return cur, reject(req.Kind, "turn already over")
	}
	next := cur.Pass()
	if next == cur {
		return cur, reject(req.Kind, "a move is available")
	}
	return next, Result{}
}

func (r *Room) fill(cur *game.GameState, req Request) (*game.GameState, Result) {
	r.fillPending = false
	if cur.Phase != game.WaitingPhase {
		return cur, reject(req.Kind, "game already started")
	}

	next := cur
	for len(next.Players) < next.Config.MaxPlayers {
		c, ok := freeColor(next)
		if !ok {
			break
		}
		next = next.AddPlayer(BotID(c), fmt.Sprintf("Bot %s", c), true, r.src)
	}
	log.Info().Str("room", r.ID).Int("seated", len(next.Players)).Msg("bots filled the room")
	return next, Result{}
}

func freeColor(gs *game.GameState) (board.Color, bool) {
	for _, c := range board.Palette {
		if _, taken := gs.PlayerByColor(c); taken {
			continue
		}
		if _, ok := gs.Board.Reserve(c); ok {
			return c, true
		}
	}
	return "", false
}
