package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yurykabanov/logrotated/pkg/catalog"
)

const (
	journalInsertQuery = `
		INSERT INTO journal (
			run_id, resource_type, resource_name,
			path, checksum, status, error, applied_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	journalSelectByRun = `
		SELECT
			id, run_id, resource_type, resource_name,
			path, checksum, status, error, applied_at
		FROM journal
		WHERE run_id = ?
		ORDER BY id
	`

	journalSelectLatest = `
		SELECT
			j.id AS id, j.run_id AS run_id,
			j.resource_type AS resource_type, j.resource_name AS resource_name,
			j.path AS path, j.checksum AS checksum, j.status AS status,
			j.error AS error, j.applied_at AS applied_at
		FROM journal j
		JOIN (
			SELECT MAX(id) AS id
			FROM journal
			GROUP BY resource_type, resource_name
		) latest ON latest.id = j.id
		ORDER BY j.resource_type, j.resource_name
	`
)

type JournalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{
		db: db,
	}
}

func (r *JournalRepository) Create(ctx context.Context, entry catalog.JournalEntry) (catalog.JournalEntry, error) {
	res, err := r.db.ExecContext(
		ctx,
		journalInsertQuery,
		entry.RunId, entry.ResourceType, entry.ResourceName,
		entry.Path, entry.Checksum, string(entry.Status), entry.Error, entry.AppliedAt,
	)
	if err != nil {
		return entry, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return entry, err
	}

	entry.Id = id

	return entry, nil
}

func (r *JournalRepository) FindByRun(ctx context.Context, runId string) ([]catalog.JournalEntry, error) {
	var entries []catalog.JournalEntry

	err := r.db.SelectContext(ctx, &entries, journalSelectByRun, runId)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// FindLatest returns the most recent entry of every resource ever applied.
func (r *JournalRepository) FindLatest(ctx context.Context) ([]catalog.JournalEntry, error) {
	var entries []catalog.JournalEntry

	err := r.db.SelectContext(ctx, &entries, journalSelectLatest)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
