package server

import (
	"sync"
	"time"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/events/bus"
	"github.com/solsync/solsync/internal/core/game"
	"github.com/solsync/solsync/internal/core/netsync"
	"github.com/solsync/solsync/internal/core/observability/log"
	"github.com/solsync/solsync/internal/core/solitaire"
)

// Room is one shared game: its own world, scheduler and event bus, the
// board dealt into it, and the players who see it. All world access goes
// through the room mutex.
type Room struct {
	ID         string
	Name       string
	MaxPlayers uint32
	CreatedAt  time.Time

	log log.Log

	mu            sync.Mutex
	world         *ecs.World
	scheduler     *ecs.Scheduler
	events        bus.EventBus
	boards        *solitaire.Manager
	sessions      *game.Manager
	net           *netsync.Manager
	sessionEntity ecs.Entity
	players       map[string]*Player
	byConn        map[ecs.Entity]string

	// boardDirty marks ticks whose actions changed card state, so the
	// board sync system snapshots it once per tick at most.
	boardDirty bool
}

// NewRoom builds a room, deals its board and registers the tick systems.
func NewRoom(name string, maxPlayers uint32, variant solitaire.Variant, seed uint64, logger log.Log) *Room {
	r := &Room{
		Name:       name,
		MaxPlayers: maxPlayers,
		CreatedAt:  time.Now(),
		world:      ecs.NewWorld(),
		scheduler:  ecs.NewScheduler(),
		events:     bus.New(),
		players:    make(map[string]*Player),
		byConn:     make(map[ecs.Entity]string),
	}

	r.boards = solitaire.NewManager(logger, seed)
	r.sessions = game.NewManager(logger)
	r.net = netsync.NewManager(logger)

	var sessionID string
	r.sessionEntity, sessionID = r.sessions.CreateSession(r.world, maxPlayers)
	r.ID = sessionID
	r.log = logger.With(log.String("room", r.ID))

	r.boards.StartNewGame(r.world, variant)

	actions := game.NewActionSystem(logger)
	actions.Handle(game.ActionDrawCard, r.handleDrawCard)
	actions.Handle(game.ActionMoveCard, r.handleMoveCard)
	actions.Handle(game.ActionFlipCard, r.handleFlipCard)

	r.scheduler.AddSystem(game.NewPhaseSystem(logger, r.events))
	r.scheduler.AddSystem(game.NewTurnSystem(logger, r.events))
	r.scheduler.AddSystem(actions)
	r.scheduler.AddSystem(solitaire.NewMoveSystem(logger))
	r.scheduler.AddSystem(solitaire.NewAnimationSystem())
	r.scheduler.AddSystem(solitaire.NewProgressSystem(logger, r.events))
	r.scheduler.AddSystem(&boardSyncSystem{room: r})
	r.scheduler.AddSystem(netsync.NewConnectionSystem(logger))
	r.scheduler.AddSystem(netsync.NewDispatchSystem(logger, r.deliver))

	r.subscribeEvents()

	return r
}

// subscribeEvents turns bus events into notification messages queued for
// the next dispatch tick.
func (r *Room) subscribeEvents() {
	notify := func(action string, payload any) {
		data, err := wireCodec.Marshal(payload)
		if err != nil {
			r.log.Error("notification encode failed", log.Error(err))
			return
		}
		frame := WireMessage{
			Type:    TypeGameAction,
			Action:  action,
			Message: string(data),
		}
		raw, err := wireCodec.Marshal(frame)
		if err != nil {
			r.log.Error("notification encode failed", log.Error(err))
			return
		}
		r.net.SendPriorityMessage(r.world, netsync.KindSystemNotification,
			ecs.NoEntity, ecs.NoEntity, string(raw), netsync.PriorityHigh)
	}

	_, _ = r.events.Subscribe(solitaire.EventGameWon, func(e bus.Event) error {
		notify("game_won", e.Data())
		return nil
	})
	_, _ = r.events.Subscribe(game.EventPhaseChanged, func(e bus.Event) error {
		notify("phase_changed", e.Data())
		if change, ok := e.Data().(game.PhaseChange); ok && change.To == game.PhasePlaying.String() {
			r.startTurns()
		}
		return nil
	})
	_, _ = r.events.Subscribe(game.EventTurnChanged, func(e bus.Event) error {
		notify("turn_changed", e.Data())
		return nil
	})
}

// deliver is the dispatch sink, called from Tick with the room lock held:
// targeted messages go to their player, everything else is broadcast,
// excluding the sender when it maps to one.
func (r *Room) deliver(msg netsync.Message) error {
	data := []byte(msg.Payload)
	if msg.Kind == netsync.KindGameStateSync {
		frame := WireMessage{Type: TypeGameAction, Action: "state_sync", Message: msg.Payload}
		raw, err := wireCodec.Marshal(frame)
		if err != nil {
			return err
		}
		data = raw
	}

	if playerID, ok := r.byConn[msg.Recipient]; ok {
		if p, ok := r.players[playerID]; ok {
			p.enqueue(data)
		}
		return nil
	}

	r.broadcastLocked(data, r.byConn[msg.Sender])
	return nil
}

// BroadcastFrame queues a frame to every player in the room, excluding at
// most one by id.
func (r *Room) BroadcastFrame(data []byte, excludePlayerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(data, excludePlayerID)
}

func (r *Room) broadcastLocked(data []byte, excludePlayerID string) {
	for id, p := range r.players {
		if id == excludePlayerID {
			continue
		}
		if !p.enqueue(data) {
			r.log.Warn("send queue full, frame dropped", log.String("player", id))
		}
	}
}

// Join adds a player to the room, spawning their world entities.
func (r *Room) Join(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[p.ID]; exists {
		return ErrAlreadyInRoom
	}

	p.entity = r.world.CreateEntity()
	if !r.sessions.JoinPlayer(r.world, r.sessionEntity, p.entity) {
		r.world.RemoveEntity(p.entity)
		return ErrRoomFull
	}

	addr := ""
	if p.conn != nil {
		addr = p.conn.RemoteAddr().String()
	}
	p.connEntity = r.net.CreateConnection(r.world, p.ID, addr)
	r.net.UpdateConnectionStatus(r.world, p.connEntity, netsync.StatusConnected)

	r.players[p.ID] = p
	r.byConn[p.connEntity] = p.ID
	p.RoomID = r.ID

	r.log.Info("player joined room",
		log.String("player", p.ID),
		log.String("name", p.Name),
		log.Int("players", len(r.players)),
	)
	return nil
}

// Leave removes a player and their world entities from the room.
func (r *Room) Leave(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return false
	}

	r.sessions.LeavePlayer(r.world, r.sessionEntity, p.entity)
	r.world.RemoveEntity(p.entity)
	r.world.RemoveEntity(p.connEntity)
	delete(r.byConn, p.connEntity)
	delete(r.players, playerID)
	p.RoomID = ""

	r.log.Info("player left room",
		log.String("player", playerID),
		log.Int("players", len(r.players)),
	)
	return true
}

// Tick advances the room simulation by dt seconds.
func (r *Room) Tick(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduler.Update(r.world, dt)
}

// RecordAction queues a named player action for the next tick. Unknown
// verbs are broadcast-only and never reach the simulation.
func (r *Room) RecordAction(playerID, action string, x, y *float64) {
	kind, ok := game.ParseActionKind(action)
	if !ok {
		r.log.Debug("unmapped action verb", log.String("action", action))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.players[playerID]
	if !exists {
		return
	}
	data := ""
	if x != nil && y != nil {
		raw, err := wireCodec.Marshal(pointPayload{X: *x, Y: *y})
		if err == nil {
			data = string(raw)
		}
	}
	r.sessions.RecordAction(r.world, p.entity, kind, data)
	if conn, ok := ecs.GetMut[netsync.Connection](r.world, p.connEntity); ok {
		conn.IncrementSent()
	}
}

// startTurns begins turn rotation over the current players once play
// starts. Bus handlers run on the tick goroutine with the room lock held.
func (r *Room) startTurns() {
	if ecs.Count[game.Turns](r.world) > 0 {
		return
	}
	players := make([]ecs.Entity, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p.entity)
	}
	if len(players) == 0 {
		return
	}
	limit := game.DefaultSettings().TurnTimeLimit
	if session, ok := ecs.Get[game.Session](r.world, r.sessionEntity); ok {
		limit = session.Settings.TurnTimeLimit
	}
	r.sessions.StartTurnTracking(r.world, players, limit)
}

// PlayerCount returns the number of players in the room.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Info returns the room summary for listings.
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := "waiting"
	if session, ok := ecs.Get[game.Session](r.world, r.sessionEntity); ok {
		state = session.Phase.String()
	}
	return RoomInfo{
		ID:          r.ID,
		Name:        r.Name,
		PlayerCount: uint32(len(r.players)),
		MaxPlayers:  r.MaxPlayers,
		GameState:   state,
	}
}

// pointPayload carries click coordinates inside action data.
type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleDrawCard turns the top stock card, recycling the waste when the
// stock is empty.
func (r *Room) handleDrawCard(w *ecs.World, _ game.Action) error {
	if r.boards.DrawFromDeck(w) {
		r.boardDirty = true
	}
	return nil
}

// handleMoveCard resolves the clicked card's best destination, foundations
// first, and queues a move request for the move system to validate and
// apply.
func (r *Room) handleMoveCard(w *ecs.World, action game.Action) error {
	var point pointPayload
	if err := wireCodec.Unmarshal([]byte(action.Data), &point); err != nil {
		return err
	}
	card, ok := solitaire.CardAt(w, point.X, point.Y)
	if !ok {
		return nil
	}
	to, slot, ok := r.boards.FindAutoPlacement(w, card)
	if !ok {
		return nil
	}
	e := w.CreateEntity()
	ecs.Add(w, e, solitaire.MoveRequest{Card: card, To: to, Slot: slot, Player: action.Player})
	r.boardDirty = true
	return nil
}

// handleFlipCard turns the face-down card under the click face up.
func (r *Room) handleFlipCard(w *ecs.World, action game.Action) error {
	var point pointPayload
	if err := wireCodec.Unmarshal([]byte(action.Data), &point); err != nil {
		return err
	}
	card, ok := solitaire.FaceDownCardAt(w, point.X, point.Y)
	if !ok {
		return nil
	}
	mut, ok := ecs.GetMut[solitaire.Card](w, card)
	if !ok {
		return nil
	}
	mut.FlipUp()
	for _, progress := range ecs.QueryMut[solitaire.Progress](w) {
		progress.RecordMove(solitaire.ScoreFlip)
	}
	r.boardDirty = true
	return nil
}

// boardSyncSystem runs after the card systems: when a tick's actions
// changed the board it queues one snapshot, which the dispatch system
// broadcasts the same tick.
type boardSyncSystem struct {
	room *Room
}

func (s *boardSyncSystem) Name() string { return "server.boardsync" }

func (s *boardSyncSystem) Update(w *ecs.World, _ float64) {
	if !s.room.boardDirty {
		return
	}
	s.room.boardDirty = false
	s.room.syncBoard(w)
}

// syncBoard queues the full card state as a state-sync message keyed by
// the card component's type identifier.
func (r *Room) syncBoard(w *ecs.World) {
	var cards []solitaire.Card
	for _, card := range ecs.Query[solitaire.Card](w) {
		cards = append(cards, card)
	}
	data, err := wireCodec.Marshal(cards)
	if err != nil {
		r.log.Error("board snapshot encode failed", log.Error(err))
		return
	}
	if _, err := r.net.SendStateSync(w, ecs.NoEntity, ecs.NoEntity,
		netsync.TypeID[solitaire.Card](), string(data)); err != nil {
		r.log.Error("board sync queue failed", log.Error(err))
	}
}
