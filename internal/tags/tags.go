// Package tags maps tag identifiers read by the tag reader to room identifiers.
package tags

import (
	"sort"
	"strconv"
	"strings"
)

// Table is an immutable tag-id -> room-id lookup table
type Table struct {
	rooms map[string]string
}

// NewTable copies entries into a new Table
func NewTable(entries map[string]string) *Table {
	rooms := make(map[string]string, len(entries))
	for tag, room := range entries {
		rooms[tag] = room
	}
	return &Table{rooms: rooms}
}

// Lookup returns the room for tagID. ok is false for unrecognised tags.
func (t *Table) Lookup(tagID string) (room string, ok bool) {
	room, ok = t.rooms[strings.TrimSpace(tagID)]
	return room, ok
}

// Len returns the number of known tags
func (t *Table) Len() int {
	return len(t.rooms)
}

// TagIDs returns the known tag ids, sorted
func (t *Table) TagIDs() []string {
	ids := make([]string, 0, len(t.rooms))
	for id := range t.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TagIDFromBytes renders a raw tag UID the way the reader reports it: every
// byte as an unsigned decimal number, concatenated without separators.
func TagIDFromBytes(uid []byte) string {
	var b strings.Builder
	for _, octet := range uid {
		b.WriteString(strconv.Itoa(int(octet)))
	}
	return b.String()
}
