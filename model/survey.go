package model

import (
	"github.com/google/uuid"

	"github.com/surveyforge/surveyforge/apperr"
)

// SurveyInput is the request shape for creating or fully replacing a survey.
// Public is a pointer so an omitted flag falls back to the default (true).
type SurveyInput struct {
	Heading     string     `json:"heading"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	Public      *bool      `json:"public"`
	SharedWith  []string   `json:"sharedWith"`
}

// SurveyPatch carries a partial update: only non-nil fields overwrite.
type SurveyPatch struct {
	Heading     *string     `json:"heading"`
	Description *string     `json:"description"`
	Questions   *[]Question `json:"questions"`
	Public      *bool       `json:"public"`
	SharedWith  *[]string   `json:"sharedWith"`
}

// QuestionPatch carries a partial update of a single question.
type QuestionPatch struct {
	Heading     *string `json:"heading"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Choices     any     `json:"choices"`
	SelectUpTo  *int    `json:"selectUpTo"`
}

// NewSurvey builds a survey aggregate from input, assigning ids and
// enforcing the structural invariants.
func NewSurvey(in SurveyInput, createdBy string) (Survey, error) {
	s := Survey{
		ID:        uuid.NewString(),
		Version:   1,
		Public:    true,
		CreatedBy: createdBy,
	}
	if err := s.Put(in); err != nil {
		return Survey{}, err
	}
	return s, nil
}

// Put fully replaces the survey's recognized fields: omitted optional
// fields reset to their defaults. Identity, owner and responder state
// are untouched.
func (s *Survey) Put(in SurveyInput) error {
	questions, err := normalizeQuestions(in.Questions)
	if err != nil {
		return err
	}
	if in.Heading == "" {
		return apperr.Validation("Heading is required.")
	}

	s.Heading = in.Heading
	s.Description = in.Description
	s.Questions = questions
	s.Public = in.Public == nil || *in.Public
	s.SharedWith = in.SharedWith
	return nil
}

// Patch merges the non-nil fields of p into the survey.
func (s *Survey) Patch(p SurveyPatch) error {
	if p.Questions != nil {
		questions, err := normalizeQuestions(*p.Questions)
		if err != nil {
			return err
		}
		s.Questions = questions
	}
	if p.Heading != nil {
		if *p.Heading == "" {
			return apperr.Validation("Heading is required.")
		}
		s.Heading = *p.Heading
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Public != nil {
		s.Public = *p.Public
	}
	if p.SharedWith != nil {
		s.SharedWith = *p.SharedWith
	}
	return nil
}

// Question finds a question by id. Returns nil when the survey does not
// own a question with that id.
func (s *Survey) Question(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// AddQuestion validates q, assigns it an id if it has none, and appends
// it to the question list.
func (s *Survey) AddQuestion(q Question) (Question, error) {
	if err := validateQuestion(q); err != nil {
		return Question{}, err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	} else if s.Question(q.ID) != nil {
		return Question{}, apperr.Validation("Question id is already in use.")
	}
	s.Questions = append(s.Questions, q)
	return q, nil
}

// RemoveQuestion deletes the question with the given id, preserving the
// order of the remaining questions.
func (s *Survey) RemoveQuestion(id string) bool {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Survey) IsSharedWith(username string) bool {
	for _, u := range s.SharedWith {
		if u == username {
			return true
		}
	}
	return false
}

func (s *Survey) HasResponded(username string) bool {
	for _, u := range s.RespondedUsers {
		if u == username {
			return true
		}
	}
	return false
}

// MarkResponded records the caller in the responded set. Idempotent.
func (s *Survey) MarkResponded(username string) {
	if username == "" || s.HasResponded(username) {
		return
	}
	s.RespondedUsers = append(s.RespondedUsers, username)
}

// PutQuestion fully replaces a question's fields in place, keeping its id.
func (q *Question) Put(in Question) error {
	if err := validateQuestion(in); err != nil {
		return err
	}
	in.ID = q.ID
	*q = in
	return nil
}

// Patch merges the non-nil fields of p into the question.
func (q *Question) Patch(p QuestionPatch) error {
	next := *q
	if p.Heading != nil {
		next.Heading = *p.Heading
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Type != nil {
		next.Type = *p.Type
	}
	if p.Choices != nil {
		next.Choices = p.Choices
	}
	if p.SelectUpTo != nil {
		next.SelectUpTo = *p.SelectUpTo
	}
	if err := validateQuestion(next); err != nil {
		return err
	}
	*q = next
	return nil
}

func normalizeQuestions(questions []Question) ([]Question, error) {
	if len(questions) == 0 {
		return nil, apperr.Validation("Questions are required.")
	}

	seen := make(map[string]bool, len(questions))
	out := make([]Question, len(questions))
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if seen[q.ID] {
			return nil, apperr.Validation("Question id is already in use.")
		}
		seen[q.ID] = true
		out[i] = q
	}
	return out, nil
}

func validateQuestion(q Question) error {
	if q.Type == "" {
		return apperr.Validation("Type is required.")
	}
	if !ValidQuestionType(q.Type) {
		return apperr.Validation("Please enter a valid Question Type.")
	}
	if q.SelectUpTo < 0 {
		return apperr.Validation("selectUpTo must be at least 1.")
	}
	return nil
}
