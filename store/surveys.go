package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/model"
)

const surveyColumns = `id, version, heading, description, public, created_by, questions, shared_with, responded_users`

func (st *Store) InsertSurvey(ctx context.Context, s *model.Survey) error {
	questions, sharedWith, respondedUsers, err := marshalSurveyLists(s)
	if err != nil {
		return err
	}

	_, err = st.db.ExecContext(ctx, `
		INSERT INTO survey (id, version, heading, description, public, created_by, questions, shared_with, responded_users)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Version, s.Heading, s.Description, s.Public, s.CreatedBy,
		questions, sharedWith, respondedUsers,
	)
	return err
}

func (st *Store) FindSurvey(ctx context.Context, id string) (*model.Survey, error) {
	row := st.db.QueryRowContext(ctx, `
		SELECT `+surveyColumns+`
		FROM survey
		WHERE id = ?`,
		id,
	)
	s, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Survey not found")
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateSurvey replaces the survey row only if its stored version still
// matches the loaded one, then bumps the in-memory version on success.
func (st *Store) UpdateSurvey(ctx context.Context, s *model.Survey) error {
	questions, sharedWith, respondedUsers, err := marshalSurveyLists(s)
	if err != nil {
		return err
	}

	res, err := st.db.ExecContext(ctx, `
		UPDATE survey
		SET
			version = version+1,
			heading = ?,
			description = ?,
			public = ?,
			questions = ?,
			shared_with = ?,
			responded_users = ?
		WHERE	id = ?
			AND version = ?`,
		s.Heading, s.Description, s.Public,
		questions, sharedWith, respondedUsers,
		s.ID, s.Version,
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
	s.Version++
	return nil
}

func (st *Store) DeleteSurvey(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM survey WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return apperr.NotFound("Survey does not exist...")
	}
	return nil
}

// ListPublicSurveys pages through publicly visible surveys.
func (st *Store) ListPublicSurveys(ctx context.Context, limit, offset int) ([]model.Survey, error) {
	return st.listSurveys(ctx, `public = 1`, limit, offset)
}

// ListSurveysSharedWith pages through the surveys shared with a username.
func (st *Store) ListSurveysSharedWith(ctx context.Context, username string, limit, offset int) ([]model.Survey, error) {
	return st.listSurveys(ctx, `
		EXISTS (SELECT 1 FROM json_each(s.shared_with) WHERE json_each.value = ?)`,
		limit, offset, username)
}

// ListSurveysReadableBy pages through every survey the caller may read:
// public ones plus those shared with or owned by the username.
func (st *Store) ListSurveysReadableBy(ctx context.Context, username string, limit, offset int) ([]model.Survey, error) {
	if username == "" {
		return st.ListPublicSurveys(ctx, limit, offset)
	}
	return st.listSurveys(ctx, `
		(s.public = 1
			OR s.created_by = ?
			OR EXISTS (SELECT 1 FROM json_each(s.shared_with) WHERE json_each.value = ?))`,
		limit, offset, username, username)
}

func (st *Store) listSurveys(ctx context.Context, cond string, limit, offset int, args ...any) ([]model.Survey, error) {
	args = append(args, limit, offset)
	rows, err := st.db.QueryContext(ctx, `
		SELECT `+surveyColumns+`
		FROM survey s
		WHERE `+cond+`
		ORDER BY rowid
		LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, *s)
	}
	return surveys, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row scanner) (*model.Survey, error) {
	s := model.Survey{}
	var questions, sharedWith, respondedUsers string
	err := row.Scan(
		&s.ID, &s.Version, &s.Heading, &s.Description, &s.Public, &s.CreatedBy,
		&questions, &sharedWith, &respondedUsers,
	)
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal([]byte(questions), &s.Questions); err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(sharedWith), &s.SharedWith); err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(respondedUsers), &s.RespondedUsers); err != nil {
		return nil, err
	}
	return &s, nil
}

func marshalSurveyLists(s *model.Survey) (questions, sharedWith, respondedUsers string, err error) {
	questions, err = marshalList(s.Questions)
	if err != nil {
		return
	}
	sharedWith, err = marshalList(s.SharedWith)
	if err != nil {
		return
	}
	respondedUsers, err = marshalList(s.RespondedUsers)
	return
}

func marshalList[T any](list []T) (string, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	return string(b), err
}
