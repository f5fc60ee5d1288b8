package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID             uuid.UUID
	Title          string
	Company        string
	Location       sql.NullString
	Summary        string
	Url            string
	Mandate        sql.NullString
	RelevanceScore sql.NullInt32
	UserID         string
	CreatedAt      time.Time
}
