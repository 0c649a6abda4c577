package entity

import "strconv"

// RoomRef identifies a chat room on the wire. Clients may address either a
// persistent room by its numeric id or an ephemeral channel by an opaque
// string. Whether a message is persisted is decided here, once, at parse time.
type RoomRef struct {
	persistent bool
	id         uint
	key        string
}

// GeneralRoomID is the seeded public room every user is enrolled in.
const GeneralRoomID uint = 1

func PersistentRoom(id uint) RoomRef {
	return RoomRef{persistent: true, id: id, key: strconv.FormatUint(uint64(id), 10)}
}

func EphemeralRoom(key string) RoomRef {
	return RoomRef{persistent: false, key: key}
}

// ParseRoomRef classifies a raw room identifier. A base-10 unsigned integer
// is a persistent room; anything else is an ephemeral channel name. An empty
// identifier falls back to the General room.
func ParseRoomRef(raw string) RoomRef {
	if raw == "" {
		return PersistentRoom(GeneralRoomID)
	}
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return PersistentRoom(uint(id))
	}
	return EphemeralRoom(raw)
}

func (r RoomRef) IsPersistent() bool {
	return r.persistent
}

// ID returns the numeric room id; ok is false for ephemeral refs.
func (r RoomRef) ID() (id uint, ok bool) {
	return r.id, r.persistent
}

func (r RoomRef) IsGeneral() bool {
	return r.persistent && r.id == GeneralRoomID
}

// Key is the hub channel name: the decimal id for persistent rooms, the
// opaque string for ephemeral ones.
func (r RoomRef) Key() string {
	return r.key
}
