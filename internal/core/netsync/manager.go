package netsync

import (
	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/internal/core/observability/log"
)

// Manager wraps the common connection and messaging operations.
type Manager struct {
	log log.Log
}

// NewManager returns a network manager.
func NewManager(logger log.Log) *Manager {
	return &Manager{log: logger.With(log.String("component", "netsync"))}
}

// CreateConnection spawns a connection entity in the disconnected state.
func (m *Manager) CreateConnection(w *ecs.World, id, url string) ecs.Entity {
	e := w.CreateEntity()
	ecs.Add(w, e, NewConnection(id, url))
	m.log.Info("connection created",
		log.String("connection", id),
		log.String("url", url),
	)
	return e
}

// SendMessage queues a normal-priority message for the next dispatch tick.
func (m *Manager) SendMessage(w *ecs.World, kind Kind, sender, recipient ecs.Entity, payload string) ecs.Entity {
	return m.queue(w, NewMessage(kind, sender, recipient, payload))
}

// SendPriorityMessage queues a message with an explicit priority.
func (m *Manager) SendPriorityMessage(w *ecs.World, kind Kind, sender, recipient ecs.Entity, payload string, priority Priority) ecs.Entity {
	return m.queue(w, NewPriorityMessage(kind, sender, recipient, payload, priority))
}

// SendStateSync queues a high-priority state-sync message whose payload
// carries a serialized component batch tagged with its type identifier.
func (m *Manager) SendStateSync(w *ecs.World, sender, recipient ecs.Entity, typeID uint64, data string) (ecs.Entity, error) {
	payload, err := syncCodec.Marshal(SyncPayload{TypeID: typeID, Data: data})
	if err != nil {
		return ecs.NoEntity, err
	}
	return m.queue(w, NewPriorityMessage(KindGameStateSync, sender, recipient, string(payload), PriorityHigh)), nil
}

func (m *Manager) queue(w *ecs.World, msg Message) ecs.Entity {
	e := w.CreateEntity()
	ecs.Add(w, e, msg)
	m.log.Debug("message queued",
		log.String("message", msg.ID),
		log.String("kind", msg.Kind.String()),
		log.String("priority", msg.Priority.String()),
	)
	return e
}

// UpdateConnectionStatus moves a connection to a new status, reporting
// whether the entity carried a connection at all.
func (m *Manager) UpdateConnectionStatus(w *ecs.World, entity ecs.Entity, status Status) bool {
	conn, ok := ecs.GetMut[Connection](w, entity)
	if !ok {
		return false
	}
	from := conn.Status
	conn.UpdateStatus(status)
	m.log.Info("connection status changed",
		log.String("connection", conn.ID),
		log.String("from", from.String()),
		log.String("to", status.String()),
	)
	return true
}
