package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/avoronova/tally/internal/store"
	"github.com/google/uuid"
)

// SQLiteRecordStore implements store.RecordStore on a local SQLite
// database. It serves as the offline upload target and as the integration
// double for the remote gateway in tests.
type SQLiteRecordStore struct {
	db *sql.DB
}

// NewSQLiteRecordStore creates a new SQLiteRecordStore.
func NewSQLiteRecordStore(db *sql.DB) *SQLiteRecordStore {
	return &SQLiteRecordStore{db: db}
}

func (r *SQLiteRecordStore) Search(ctx context.Context, dates []string) ([]store.Record, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	query := fmt.Sprintf(`SELECT id, name, date, participant, activity, activity_duration, record_type, group_id
		FROM records WHERE date IN (%s) ORDER BY name`, placeholders)

	args := make([]any, len(dates))
	for i, d := range dates {
		args[i] = d
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrFetchFailed, err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var rec store.Record
		var groupID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Date, &rec.Participant,
			&rec.Activity, &rec.ActivityDuration, &rec.RecordType, &groupID); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %v", store.ErrFetchFailed, err)
		}
		rec.GroupID = groupID.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", store.ErrFetchFailed, err)
	}
	return records, nil
}

// Upsert writes the batch in one transaction, updating in place on a
// natural-key collision. dedupFields is part of the gateway contract; the
// local schema enforces uniqueness on Name, the only supported dedup field.
func (r *SQLiteRecordStore) Upsert(ctx context.Context, records []store.Record, dedupFields []string) error {
	if len(dedupFields) != 1 || dedupFields[0] != store.DedupField {
		return fmt.Errorf("%w: unsupported dedup fields %v", store.ErrUpsertFailed, dedupFields)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", store.ErrUpsertFailed, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `INSERT INTO records (id, name, date, participant, activity, activity_duration, record_type, group_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			date = excluded.date,
			participant = excluded.participant,
			activity = excluded.activity,
			activity_duration = excluded.activity_duration,
			record_type = excluded.record_type,
			group_id = excluded.group_id,
			updated_at = excluded.updated_at`

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.New().String()
		}
		var groupID any
		if rec.GroupID != "" {
			groupID = rec.GroupID
		}
		if _, err := tx.ExecContext(ctx, query,
			id, rec.Name, rec.Date, rec.Participant, rec.Activity,
			rec.ActivityDuration, rec.RecordType, groupID, now, now,
		); err != nil {
			return fmt.Errorf("%w: writing record %q: %v", store.ErrUpsertFailed, rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", store.ErrUpsertFailed, err)
	}
	return nil
}
