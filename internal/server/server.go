package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/solsync/solsync/internal/core/observability/log"
	"github.com/solsync/solsync/internal/core/solitaire"
)

// Server accepts browser WebSocket clients, sorts them into rooms and
// relays their cursors and actions while the tick loop advances each
// room's simulation.
type Server struct {
	config   Config
	logger   log.Log
	upgrader websocket.Upgrader

	httpServer *http.Server
	group      *errgroup.Group

	// Room management
	rooms         sync.Map // map[string]*Room
	roomCount     int64    // atomic
	defaultRoomID string

	// Player management
	players     sync.Map // map[string]*Player
	playerCount int64    // atomic

	colorCursor uint32 // atomic, cursor colors cycle 1-5

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewServer creates a server from the given configuration.
func NewServer(config Config) *Server {
	logger := log.New(log.ParseLevel(config.LogLevel))

	s := &Server{
		config: config,
		logger: logger.With(log.String("component", "server")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			// Clients are browser pages served from anywhere.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		stopChan: make(chan struct{}),
	}

	s.logger.Info("server created",
		log.String("listen_addr", config.Addr()),
		log.String("variant", config.GameVariant),
		log.Int("tick_rate", config.TickRate),
	)
	return s
}

// Start brings up the listener and the tick loop. It does not block.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	if err := s.config.Validate(); err != nil {
		atomic.StoreInt32(&s.running, 0)
		return err
	}

	room, err := s.createRoom(s.config.DefaultRoomName)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		return err
	}
	s.defaultRoomID = room.ID

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.httpServer = &http.Server{Addr: s.config.Addr(), Handler: mux}

	group, gctx := errgroup.WithContext(ctx)
	s.group = group

	group.Go(func() error {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		s.tickLoop(gctx)
		return nil
	})

	s.logger.Info("server started", log.String("addr", s.config.Addr()))
	return nil
}

// Run starts the server and blocks until the context is canceled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	err := s.group.Wait()
	if stopErr := s.Stop(context.Background()); stopErr != nil && !errors.Is(stopErr, ErrServerNotRunning) {
		s.logger.Error("shutdown failed", log.Error(stopErr))
	}
	return err
}

// Stop shuts the server down, disconnecting every client.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("stopping server")
	s.stopOnce.Do(func() { close(s.stopChan) })

	if s.httpServer != nil {
		_ = s.httpServer.Shutdown(ctx)
	}

	s.players.Range(func(_, value any) bool {
		if p, ok := value.(*Player); ok {
			_ = p.conn.Close()
		}
		return true
	})

	if s.group != nil {
		_ = s.group.Wait()
	}

	s.logger.Info("server stopped")
	return nil
}

// Close stops the server and rejects any further start.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		return s.Stop(context.Background())
	}
	return nil
}

// Stats contains server statistics
type Stats struct {
	PlayerCount int64
	RoomCount   int64
	Running     bool
}

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	return Stats{
		PlayerCount: atomic.LoadInt64(&s.playerCount),
		RoomCount:   atomic.LoadInt64(&s.roomCount),
		Running:     atomic.LoadInt32(&s.running) == 1,
	}
}

// tickLoop advances every room at the configured tick rate.
func (s *Server) tickLoop(ctx context.Context) {
	s.logger.Debug("tick loop started")
	defer s.logger.Debug("tick loop stopped")

	ticker := time.NewTicker(s.config.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.rooms.Range(func(_, value any) bool {
				if room, ok := value.(*Room); ok {
					room.Tick(dt)
				}
				return true
			})
		}
	}
}

// createRoom spawns a room running the configured variant.
func (s *Server) createRoom(name string) (*Room, error) {
	if int(atomic.LoadInt64(&s.roomCount)) >= s.config.MaxRooms {
		return nil, ErrMaxRoomsReached
	}

	variant, ok := solitaire.ParseVariant(s.config.GameVariant)
	if !ok {
		return nil, ErrInvalidConfig
	}
	seed := s.config.GameSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	room := NewRoom(name, s.config.MaxPlayersPerRoom, variant, seed, s.logger)
	s.rooms.Store(room.ID, room)
	atomic.AddInt64(&s.roomCount, 1)

	s.logger.Info("room created",
		log.String("room", room.ID),
		log.String("name", name),
	)
	return room, nil
}

// listRooms collects the summary of every room.
func (s *Server) listRooms() []RoomInfo {
	var rooms []RoomInfo
	s.rooms.Range(func(_, value any) bool {
		if room, ok := value.(*Room); ok {
			rooms = append(rooms, room.Info())
		}
		return true
	})
	return rooms
}

// roomOf returns the room the player currently sits in.
func (s *Server) roomOf(p *Player) (*Room, bool) {
	if p.RoomID == "" {
		return nil, false
	}
	value, ok := s.rooms.Load(p.RoomID)
	if !ok {
		return nil, false
	}
	room, ok := value.(*Room)
	return room, ok
}

// handleWebSocket upgrades an HTTP request and serves its message loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", log.Error(err))
		return
	}
	s.logger.Info("client connected", log.String("remote_addr", conn.RemoteAddr().String()))
	go s.handleConnection(conn)
}

// handleConnection reads frames from one socket until it closes.
func (s *Server) handleConnection(conn *websocket.Conn) {
	conn.SetReadLimit(s.config.MaxMessageSize)

	var player *Player
	defer func() {
		if player != nil {
			s.disconnect(player)
		} else {
			_ = conn.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg WireMessage
		if err = wireCodec.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("unparseable frame", log.Error(err))
			s.replyError(conn, player, "invalid message")
			continue
		}

		if msg.Type == TypePlayerJoin {
			player = s.handleJoin(conn, player, msg)
			continue
		}
		if player == nil {
			s.replyError(conn, nil, "join first")
			continue
		}
		s.handleFrame(player, msg, data)
	}
}

// handleJoin registers a new player and puts them in the default room.
func (s *Server) handleJoin(conn *websocket.Conn, existing *Player, msg WireMessage) *Player {
	if existing != nil {
		s.replyError(conn, existing, "already joined")
		return existing
	}

	name := msg.PlayerName
	if name == "" {
		name = "Player"
	}

	idx := atomic.AddUint32(&s.colorCursor, 1)
	player := newPlayer(name, uint8((idx-1)%5+1), conn, s.config.SendQueueSize)

	s.players.Store(player.ID, player)
	atomic.AddInt64(&s.playerCount, 1)
	go player.writePump()

	s.logger.Info("player joined",
		log.String("player", player.ID),
		log.String("name", player.Name),
		log.Int64("total_players", atomic.LoadInt64(&s.playerCount)),
	)

	if value, ok := s.rooms.Load(s.defaultRoomID); ok {
		if room, ok := value.(*Room); ok {
			if err := room.Join(player); err != nil {
				s.sendFrame(player, errorMessage(err.Error()))
			} else {
				s.broadcastFrame(room, joinMessage(player.ID, player.Name, player.ColorIndex), player.ID)
			}
		}
	}

	// The joiner learns its server-assigned id and color from the echo.
	s.sendFrame(player, joinMessage(player.ID, player.Name, player.ColorIndex))
	s.sendFrame(player, roomListMessage(s.listRooms()))
	return player
}

// handleFrame routes one parsed frame from a joined player.
func (s *Server) handleFrame(player *Player, msg WireMessage, raw []byte) {
	switch msg.Type {
	case TypeMousePosition:
		if msg.X != nil && msg.Y != nil {
			player.CursorX, player.CursorY = *msg.X, *msg.Y
		}
		if room, ok := s.roomOf(player); ok {
			room.BroadcastFrame(raw, player.ID)
		}

	case TypeGameAction:
		s.logger.Debug("game action",
			log.String("player", player.ID),
			log.String("action", msg.Action),
		)
		room, ok := s.roomOf(player)
		if !ok {
			s.sendFrame(player, errorMessage("not in a room"))
			return
		}
		room.BroadcastFrame(raw, player.ID)
		room.RecordAction(player.ID, msg.Action, msg.X, msg.Y)

	case TypeJoinRoom:
		s.moveToRoom(player, msg.RoomID)

	case TypeLeaveRoom:
		if room, ok := s.roomOf(player); ok && room.Leave(player.ID) {
			s.broadcastFrame(room, leftMessage(player.ID, player.Name), "")
		}

	case TypeRoomList:
		s.sendFrame(player, roomListMessage(s.listRooms()))

	default:
		s.sendFrame(player, errorMessage("unsupported message type"))
	}
}

// moveToRoom switches a player into the named room.
func (s *Server) moveToRoom(player *Player, roomID string) {
	value, ok := s.rooms.Load(roomID)
	if !ok {
		s.sendFrame(player, errorMessage(ErrRoomNotFound.Error()))
		return
	}
	target, ok := value.(*Room)
	if !ok {
		s.sendFrame(player, errorMessage(ErrRoomNotFound.Error()))
		return
	}

	if current, ok := s.roomOf(player); ok {
		if current.ID == target.ID {
			s.sendFrame(player, errorMessage(ErrAlreadyInRoom.Error()))
			return
		}
		if current.Leave(player.ID) {
			s.broadcastFrame(current, leftMessage(player.ID, player.Name), "")
		}
	}

	if err := target.Join(player); err != nil {
		s.sendFrame(player, errorMessage(err.Error()))
		return
	}
	s.broadcastFrame(target, joinMessage(player.ID, player.Name, player.ColorIndex), player.ID)
	s.sendFrame(player, roomListMessage(s.listRooms()))
}

// disconnect tears a player down after their socket closes.
func (s *Server) disconnect(player *Player) {
	player.Connected = false

	if room, ok := s.roomOf(player); ok && room.Leave(player.ID) {
		s.broadcastFrame(room, leftMessage(player.ID, player.Name), "")
	}

	s.players.Delete(player.ID)
	atomic.AddInt64(&s.playerCount, -1)
	close(player.send)
	_ = player.conn.Close()

	s.logger.Info("player disconnected",
		log.String("player", player.ID),
		log.String("name", player.Name),
		log.Int64("total_players", atomic.LoadInt64(&s.playerCount)),
	)
}

// sendFrame marshals and queues a frame for one player.
func (s *Server) sendFrame(p *Player, msg WireMessage) {
	data, err := wireCodec.Marshal(msg)
	if err != nil {
		s.logger.Error("frame encode failed", log.Error(err))
		return
	}
	if !p.enqueue(data) {
		s.logger.Warn("send queue full, frame dropped", log.String("player", p.ID))
	}
}

// broadcastFrame marshals and fans a frame out to a room.
func (s *Server) broadcastFrame(room *Room, msg WireMessage, excludePlayerID string) {
	data, err := wireCodec.Marshal(msg)
	if err != nil {
		s.logger.Error("frame encode failed", log.Error(err))
		return
	}
	room.BroadcastFrame(data, excludePlayerID)
}

// replyError writes an error frame, through the queue when the player has
// one, directly otherwise.
func (s *Server) replyError(conn *websocket.Conn, player *Player, message string) {
	if player != nil {
		s.sendFrame(player, errorMessage(message))
		return
	}
	data, err := wireCodec.Marshal(errorMessage(message))
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}
