package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"procpanel.org/internal/gateway"
)

// PGStore persists sessions in Postgres so logins survive panel restarts.
//
// Schema:
//
//	create table if not exists sessions (
//	    id         text primary key,
//	    token      text not null,
//	    user_data  jsonb not null default '{}',
//	    created_at timestamptz not null default now(),
//	    updated_at timestamptz not null default now()
//	);
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

// OpenPG opens a pooled connection.
func OpenPG(dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &PGStore{db: db}, nil
}

// NewPGStore wraps an existing handle (tests).
func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Close() error { return s.db.Close() }

// DB exposes the handle for the readiness probe.
func (s *PGStore) DB() *sql.DB { return s.db }

func (s *PGStore) Get(ctx context.Context, id string) (Session, error) {
	var (
		out      Session
		userJSON []byte
	)
	err := s.db.QueryRowContext(ctx,
		`select id, token, user_data, created_at, updated_at from sessions where id=$1`, id,
	).Scan(&out.ID, &out.Token, &userJSON, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	if len(userJSON) > 0 {
		var user gateway.User
		if err := json.Unmarshal(userJSON, &user); err == nil {
			out.User = user
		}
	}
	return out, nil
}

func (s *PGStore) Put(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return errors.New("session: id is required")
	}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into sessions (id, token, user_data, created_at, updated_at)
		values ($1, $2, $3, now(), now())
		on conflict (id) do update
		set token = excluded.token, user_data = excluded.user_data, updated_at = now()
	`, sess.ID, sess.Token, userJSON)
	return err
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where id=$1`, id)
	return err
}

// Purge drops sessions idle longer than ttl. Called periodically by cmd/panel.
func (s *PGStore) Purge(ctx context.Context, ttl time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`delete from sessions where updated_at < now() - $1::interval`,
		ttl.String())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
