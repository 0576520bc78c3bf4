package netsync

import (
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/solsync/solsync/internal/core/ecs"
	"github.com/solsync/solsync/pkg/encoding"
)

// TypeID derives a stable wire identifier for a component type by hashing
// its fully qualified name. Both sides of a sync exchange compute the same
// id as long as they agree on the type.
func TypeID[T ecs.Component]() uint64 {
	return xxhash.Sum64String(reflect.TypeFor[T]().String())
}

// TypeIDOf is the non-generic form of TypeID for values whose type is only
// known at runtime.
func TypeIDOf(v any) uint64 {
	return xxhash.Sum64String(reflect.TypeOf(v).String())
}

// syncCodec encodes state-sync payload envelopes.
var syncCodec encoding.Codec = encoding.JSON{}

// SyncPayload is the envelope carried by state-sync messages: a serialized
// component batch tagged with the type identifier of the component it
// holds.
type SyncPayload struct {
	TypeID uint64 `json:"type_id"`
	Data   string `json:"data"`
}

// DecodeSyncPayload unpacks the payload of a state-sync message.
func DecodeSyncPayload(payload string) (SyncPayload, error) {
	var sync SyncPayload
	err := syncCodec.Unmarshal([]byte(payload), &sync)
	return sync, err
}
