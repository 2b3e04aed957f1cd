package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelnest/planner/internal/domain"
)

// NoteRepo defines the persistence operations for trip notes.
// A trip has at most one note; saving again overwrites it.
type NoteRepo interface {
	// Upsert stores content as the note of tripID, replacing any previous note.
	Upsert(ctx context.Context, tripID uuid.UUID, content string) (domain.Note, error)

	// Get returns the note of tripID, or domain.ErrNotFound if none was saved.
	Get(ctx context.Context, tripID uuid.UUID) (domain.Note, error)
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

// Upsert writes the note, overwriting on trip_id conflict.
func (r *pgNoteRepo) Upsert(ctx context.Context, tripID uuid.UUID, content string) (domain.Note, error) {
	const q = `
		INSERT INTO trip_notes (trip_id, content)
		VALUES (@trip_id, @content)
		ON CONFLICT (trip_id) DO UPDATE
		SET content = EXCLUDED.content, updated_at = now()
		RETURNING trip_id, content, updated_at`

	n, err := scanNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "content": content}))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Upsert: %w", err)
	}
	return n, nil
}

func (r *pgNoteRepo) Get(ctx context.Context, tripID uuid.UUID) (domain.Note, error) {
	const q = `
		SELECT trip_id, content, updated_at
		FROM trip_notes
		WHERE trip_id = @trip_id`

	n, err := scanNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Get: %w", err)
	}
	return n, nil
}

func scanNote(s scanner) (domain.Note, error) {
	var (
		n      domain.Note
		tripID pgtype.UUID
	)
	if err := s.Scan(&tripID, &n.Content, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}
	n.TripID = uuid.UUID(tripID.Bytes)
	return n, nil
}
