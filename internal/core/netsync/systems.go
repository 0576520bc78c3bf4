package netsync

import (
	"time"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/observability/log"
	"github.com/solsync/solsync/pkg/sequence"
)

const (
	// maxRetries caps reconnect attempts before a connection is left in
	// its error state.
	maxRetries = 3

	// activityTimeout is how long a connected peer may stay silent before
	// it is flagged as errored.
	activityTimeout = 60 * time.Second

	// messageTTL is how long an undelivered message stays worth sending.
	messageTTL = 300 * time.Second
)

// ConnectionSystem drives connection liveness: it schedules reconnects for
// errored connections and times out silent ones.
type ConnectionSystem struct {
	log log.Log
}

// NewConnectionSystem returns the connection liveness system.
func NewConnectionSystem(logger log.Log) *ConnectionSystem {
	return &ConnectionSystem{log: logger.With(log.String("system", "netsync.connection"))}
}

func (s *ConnectionSystem) Name() string { return "netsync.connection" }

func (s *ConnectionSystem) Update(w *ecs.World, _ float64) {
	for entity, conn := range ecs.QueryMut[Connection](w) {
		switch conn.Status {
		case StatusError:
			if conn.RetryCount >= maxRetries {
				continue
			}
			conn.IncrementRetry()
			conn.UpdateStatus(StatusReconnecting)
			s.log.Info("reconnect scheduled",
				log.String("connection", conn.ID),
				log.Uint64("entity", entity.ID()),
				log.Uint64("attempt", uint64(conn.RetryCount)),
			)
		case StatusConnected:
			if conn.IsActive(activityTimeout) {
				continue
			}
			conn.UpdateStatus(StatusError)
			s.log.Warn("connection timed out",
				log.String("connection", conn.ID),
				log.Uint64("entity", entity.ID()),
			)
		}
	}
}

// MessageSink receives messages drained by the dispatch system, highest
// priority first. The transport layer plugs in here.
type MessageSink func(msg Message) error

// DispatchSystem drains queued messages each tick in priority order,
// dropping the ones that expired before delivery.
type DispatchSystem struct {
	log  log.Log
	sink MessageSink
}

// NewDispatchSystem returns the message dispatch system. The sink may be
// nil, in which case drained messages are discarded after logging.
func NewDispatchSystem(logger log.Log, sink MessageSink) *DispatchSystem {
	return &DispatchSystem{
		log:  logger.With(log.String("system", "netsync.dispatch")),
		sink: sink,
	}
}

func (s *DispatchSystem) Name() string { return "netsync.dispatch" }

func (s *DispatchSystem) Update(w *ecs.World, _ float64) {
	var entities []ecs.Entity
	for entity := range ecs.Query[Message](w) {
		entities = append(entities, entity)
	}
	if len(entities) == 0 {
		return
	}

	pending := sequence.NewPriorityQueue[Message]()
	for _, entity := range entities {
		msg, ok := ecs.Get[Message](w, entity)
		w.RemoveEntity(entity)
		if !ok {
			continue
		}
		if msg.Expired(messageTTL) {
			s.log.Warn("expired message dropped",
				log.String("message", msg.ID),
				log.String("kind", msg.Kind.String()),
			)
			continue
		}
		pending.Enqueue(msg, int(msg.Priority))
	}

	for {
		msg, ok := pending.Dequeue()
		if !ok {
			return
		}
		s.deliver(w, msg)
	}
}

func (s *DispatchSystem) deliver(w *ecs.World, msg Message) {
	// Counters track each peer's own traffic: the sender sent, the
	// recipient received.
	if conn, ok := ecs.GetMut[Connection](w, msg.Sender); ok {
		conn.IncrementSent()
	}
	if conn, ok := ecs.GetMut[Connection](w, msg.Recipient); ok {
		conn.IncrementReceived()
	}

	// Pings are answered in place; everything else goes to the transport.
	if msg.Kind == KindPing && msg.Sender.Valid() {
		reply := NewPriorityMessage(KindPong, msg.Recipient, msg.Sender, msg.Payload, PriorityHigh)
		e := w.CreateEntity()
		ecs.Add(w, e, reply)
		return
	}

	if s.sink == nil {
		s.log.Debug("message drained without sink",
			log.String("message", msg.ID),
			log.String("kind", msg.Kind.String()),
		)
		return
	}
	if err := s.sink(msg); err != nil {
		if msg.RetryCount >= maxRetries {
			s.log.Warn("message dropped after retries",
				log.String("message", msg.ID),
				log.String("kind", msg.Kind.String()),
				log.Error(err),
			)
			return
		}
		msg.IncrementRetry()
		e := w.CreateEntity()
		ecs.Add(w, e, msg)
		s.log.Warn("message delivery failed, requeued",
			log.String("message", msg.ID),
			log.String("kind", msg.Kind.String()),
			log.Uint64("attempt", uint64(msg.RetryCount)),
			log.Error(err),
		)
	}
}
