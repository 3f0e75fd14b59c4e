package store

import (
	"context"
	"database/sql"
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/model"
)

func (st *Store) InsertUser(ctx context.Context, u *model.User) error {
	_, err := st.db.ExecContext(ctx, `
		INSERT INTO user (username, password_hash) VALUES (?, ?)`,
		u.Username, string(u.PasswordHash),
	)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return apperr.Conflict("Username already exists")
	}
	return err
}

func (st *Store) FindUser(ctx context.Context, username string) (*model.User, error) {
	u := model.User{}
	var hash string
	err := st.db.QueryRowContext(ctx, `
		SELECT username, password_hash FROM user WHERE username = ?`,
		username,
	).Scan(&u.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User does not exist")
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = []byte(hash)
	return &u, nil
}
