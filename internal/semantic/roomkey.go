package semantic

import "github.com/google/uuid"

// roomKeyNamespace is the fixed UUIDv5 namespace for deriving room keys
// from room identifiers. Callers that only hold a room id (the chatbot,
// the relay's transcript hook) derive the same key the gateway derives.
var roomKeyNamespace = uuid.MustParse("9f2c1a40-6f4e-4c6a-9d2e-3b8f5a7c1e90")

// RoomKeyFor deterministically derives the canonical room key UUID for a
// room identifier.
func RoomKeyFor(roomID string) string {
	return uuid.NewSHA1(roomKeyNamespace, []byte(roomID)).String()
}
