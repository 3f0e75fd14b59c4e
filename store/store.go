// Package store persists surveys, answer sets and users on SQLite.
//
// Survey rows carry a version counter; every survey update is a
// compare-and-swap on that counter so concurrent read-modify-write
// sequences surface as conflicts instead of lost updates.
package store

import (
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Page clamps pagination query parameters to their endpoint defaults.
func Page(page, size, defaultSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	return size, (page - 1) * size
}
