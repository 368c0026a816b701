package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-events/internal/models"
)

// InitSchema creates the users and events tables if they do not exist yet.
// users goes first because events references it.
func InitSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*models.Event)(nil)).
		IfNotExists().
		ForeignKey(`("authorID") REFERENCES "users" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}

	return nil
}

// SeedDefaultUser makes sure at least one author exists so a fresh
// deployment can accept events. It returns the id of the first user.
func SeedDefaultUser(ctx context.Context, db bun.IDB, name string) (int64, error) {
	var user models.User
	err := db.NewSelect().Model(&user).OrderExpr("id ASC").Limit(1).Scan(ctx)
	if err == nil {
		return user.ID, nil
	}
	if !IsNoRows(err) {
		return 0, fmt.Errorf("look up users: %w", err)
	}

	user = models.User{Name: name}
	if _, err := db.NewInsert().Model(&user).Returning("id").Exec(ctx); err != nil {
		return 0, fmt.Errorf("seed default user: %w", err)
	}
	return user.ID, nil
}
