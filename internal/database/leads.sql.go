package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const createLead = `-- name: CreateLead :exec
INSERT INTO leads (
id, title, company, location, summary, url, mandate, relevance_score, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateLeadParams struct {
	ID             uuid.UUID
	Title          string
	Company        string
	Location       sql.NullString
	Summary        string
	Url            string
	Mandate        sql.NullString
	RelevanceScore sql.NullInt32
	UserID         string
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) error {
	_, err := q.db.ExecContext(ctx, createLead,
		arg.ID,
		arg.Title,
		arg.Company,
		arg.Location,
		arg.Summary,
		arg.Url,
		arg.Mandate,
		arg.RelevanceScore,
		arg.UserID,
	)
	return err
}

const getLeads = `-- name: GetLeads :many
SELECT id, title, company, location, summary, url, mandate, relevance_score, user_id, created_at FROM leads ORDER BY created_at DESC LIMIT 50
`

func (q *Queries) GetLeads(ctx context.Context) ([]Lead, error) {
	rows, err := q.db.QueryContext(ctx, getLeads)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Lead
	for rows.Next() {
		var i Lead
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Company,
			&i.Location,
			&i.Summary,
			&i.Url,
			&i.Mandate,
			&i.RelevanceScore,
			&i.UserID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
