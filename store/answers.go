package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/model"
)

func (st *Store) FindAnswer(ctx context.Context, id string) (*model.Answer, error) {
	row := st.db.QueryRowContext(ctx, `
		SELECT id, survey_id, entries
		FROM answer
		WHERE id = ?`,
		id,
	)
	a, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Answer not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (st *Store) AnswersBySurvey(ctx context.Context, surveyID string) ([]model.Answer, error) {
	return st.listAnswers(ctx, `WHERE survey_id = ?`, surveyID)
}

// ListAnswers pages through every stored answer set, oldest first.
func (st *Store) ListAnswers(ctx context.Context, limit, offset int) ([]model.Answer, error) {
	return st.listAnswers(ctx, `ORDER BY rowid LIMIT ? OFFSET ?`, limit, offset)
}

func (st *Store) listAnswers(ctx context.Context, clause string, args ...any) ([]model.Answer, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT id, survey_id, entries
		FROM answer `+clause,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}

func (st *Store) UpdateAnswer(ctx context.Context, a *model.Answer) error {
	entries, err := json.Marshal(a.Entries)
	if err != nil {
		return err
	}
	res, err := st.db.ExecContext(ctx, `
		UPDATE answer SET entries = ? WHERE id = ?`,
		string(entries), a.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return apperr.NotFound("Answer not found")
	}
	return nil
}

func (st *Store) DeleteAnswer(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM answer WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return apperr.NotFound("Answer not found")
	}
	return nil
}

// SubmitResponse stores a new answer set and the survey's updated
// responder list in one transaction. The survey write is a version
// compare-and-swap: a concurrent update of the same survey makes the
// whole submission fail with a conflict, leaving no partial state.
func (st *Store) SubmitResponse(ctx context.Context, s *model.Survey, a *model.Answer) error {
	entries, err := json.Marshal(a.Entries)
	if err != nil {
		return err
	}
	respondedUsers, err := marshalList(s.RespondedUsers)
	if err != nil {
		return err
	}

	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO answer (id, survey_id, entries) VALUES (?, ?, ?)`,
		a.ID, a.SurveyID, string(entries),
	)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE survey
		SET version = version+1, responded_users = ?
		WHERE id = ? AND version = ?`,
		respondedUsers, s.ID, s.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return apperr.Conflict("Survey was modified concurrently")
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	s.Version++
	return nil
}

func scanAnswer(row scanner) (*model.Answer, error) {
	a := model.Answer{}
	var entries string
	if err := row.Scan(&a.ID, &a.SurveyID, &entries); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(entries), &a.Entries); err != nil {
		return nil, err
	}
	return &a, nil
}
