package models

import "github.com/google/uuid"

// ensureID assigns a client-side id so inserts behave the same on Postgres and SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists the models owned by this service, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&CanvassRequest{},
		&CanvassItem{},
		&OutboxEvent{},
	}
}
