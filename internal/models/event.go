package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,notnull" json:"description"`
	Address     string    `bun:"address,notnull" json:"address"`
	Date        Date      `bun:"date,type:date,notnull" json:"date"`
	Time        TimeOfDay `bun:"time,type:time,notnull" json:"time"`
	AuthorID    int64     `bun:"authorID,notnull" json:"authorID"`
	CreatedAt   time.Time `bun:"created_at,type:timestamptz,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// NewEvent carries the client-supplied fields of an event.
type NewEvent struct {
	Title       string
	Description string
	Address     string
	Date        Date
	Time        TimeOfDay
	AuthorID    int64
}
