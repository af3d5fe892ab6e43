// Package notify maintains the registry of live socket connections and
// fans domain events out to admin-tagged connections.
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dalemusser/shelfhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// EventKind names an inbound domain event on the socket channel.
type EventKind string

const (
	EventJoin       EventKind = "join"
	EventNewRating  EventKind = "newRating"
	EventNewComment EventKind = "newComment"
	EventNewBook    EventKind = "newBook"
	EventNewBorrow  EventKind = "newBorrow"
)

// notificationFor maps an inbound event kind to the outbound event name
// delivered to admin connections.
var notificationFor = map[EventKind]string{
	EventNewRating:  "ratingNotification",
	EventNewComment: "commentNotification",
	EventNewBook:    "bookNotification",
	EventNewBorrow:  "borrowNotification",
}

// Envelope is one JSON frame on the socket channel, inbound or outbound.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Sender delivers an outbound envelope to one connection.
type Sender interface {
	Send(env Envelope) error
}

// RoleResolver resolves a claimed email to its admin flag.
// Satisfied by *authz.Guard.
type RoleResolver interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// entry is one registered connection: the claimed email and the admin
// flag resolved once at join time.
type entry struct {
	email   string
	isAdmin bool
	sender  Sender
}

// Hub owns the connection registry. It is the only writer of the map;
// the dispatch layer holds a reference and calls Join / Broadcast /
// Disconnect, never touching the registry directly.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]entry

	roles RoleResolver
	log   *zap.Logger
}

func NewHub(roles RoleResolver, logger *zap.Logger) *Hub {
	return &Hub{
		conns: make(map[string]entry),
		roles: roles,
		log:   logger,
	}
}

// Join registers a connection under the claimed email, resolving the
// admin flag from the user store. A failed or empty resolution degrades
// to non-admin; joining never fails and nothing is reported back to the
// client. A broadcast arriving before Join completes simply misses this
// connection.
func (h *Hub) Join(ctx context.Context, connID, email string, sender Sender) {
	isAdmin, err := h.roles.IsAdmin(ctx, email)
	if err != nil {
		// Degraded trust: the connection stays, tagged non-admin.
		h.log.Warn("join: role resolution failed, defaulting to non-admin",
			zap.String("conn_id", connID),
			zap.String("email", email),
			zap.Error(err))
		isAdmin = false
	}

	h.mu.Lock()
	h.conns[connID] = entry{email: email, isAdmin: isAdmin, sender: sender}
	h.mu.Unlock()

	h.log.Info("connection joined",
		zap.String("conn_id", connID),
		zap.String("email", email),
		zap.Bool("is_admin", isAdmin))
}

// JoinWithTimeout is Join with a bounded role lookup, for callers that
// have no request context of their own (the socket read pump).
func (h *Hub) JoinWithTimeout(connID, email string, sender Sender) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	h.Join(ctx, connID, email, sender)
}

// Broadcast delivers the payload of an inbound event to every
// admin-tagged connection except the emitting one. The sender is always
// excluded, even when it is itself admin-tagged. Unknown event kinds are
// dropped.
func (h *Hub) Broadcast(kind EventKind, senderID string, data json.RawMessage) {
	outEvent, ok := notificationFor[kind]
	if !ok {
		h.log.Warn("broadcast: unknown event kind", zap.String("kind", string(kind)))
		return
	}
	env := Envelope{Event: outEvent, Data: data}

	h.mu.RLock()
	targets := make([]Sender, 0, len(h.conns))
	for id, e := range h.conns {
		if id == senderID || !e.isAdmin {
			continue
		}
		targets = append(targets, e.sender)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(env); err != nil {
			h.log.Warn("broadcast: send failed", zap.String("event", outEvent), zap.Error(err))
		}
	}
}

// Disconnect removes the connection unconditionally. There is no
// reconnection state: a later rejoin with the same identity resolves its
// role fresh.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	_, present := h.conns[connID]
	delete(h.conns, connID)
	h.mu.Unlock()

	if present {
		h.log.Info("connection left", zap.String("conn_id", connID))
	}
}
