// Package validate implements the answer-validation engine: pure checks of a
// submitted answer value against its question definition. Validation is
// deterministic and performs no I/O.
//
// Each entry of an answer set is checked against the first failing rule only;
// the whole set is traversed so a valid set is known to be fully checked.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/model"
)

// Set validates a whole answer set against the survey that owns the
// referenced questions.
func Set(survey *model.Survey, entries []model.AnswerEntry) error {
	if len(entries) == 0 {
		return apperr.Validation("Answers are required.")
	}
	for _, entry := range entries {
		question := survey.Question(entry.QuestionID)
		if question == nil {
			return apperr.NotFound("Question does not belong to survey")
		}
		if err := Value(*question, entry.Value); err != nil {
			return err
		}
	}
	return nil
}

type rule func(q model.Question, value any) error

var rules = map[string]rule{
	model.TypeShortQuestion:         text(255, "Answer must be a string for short-question.", "Answer can only be 255 characters or less"),
	model.TypeParagraph:             text(10000, "Answer must be a string for paragraph.", "Answer can only be 10,000 characters or less"),
	model.TypeDropdown:              singleChoice,
	model.TypeMultipleChoice:        singleChoice,
	model.TypeSingleCorrectAnswer:   singleChoice,
	model.TypeCheckbox:              singleChoice,
	model.TypeLinearScale:           singleChoice,
	model.TypeMultipleCorrectAnswer: multipleChoice,
	model.TypeMultipleChoiceGrid:    choiceGrid,
	model.TypeDate:                  date,
	model.TypeTime:                  clockTime,
	model.TypeEmail:                 email,
	model.TypeNumericalValue:        number,
}

// Value checks one candidate value against its question definition,
// returning nil or the reason of the first failing rule.
func Value(q model.Question, value any) error {
	if undefined(value) {
		return apperr.Validation("Answer must be defined")
	}

	if err := selectionLimit(q, value); err != nil {
		return err
	}

	check, ok := rules[q.Type]
	if !ok {
		return apperr.Validation("Please enter a valid Question Type.")
	}
	return check(q, value)
}

// selectionLimit enforces selectUpTo on the multi-selection capable types:
// a cap on the selected set, and scalar-only when the cap is exactly 1.
func selectionLimit(q model.Question, value any) error {
	switch q.Type {
	case model.TypeSingleCorrectAnswer, model.TypeMultipleCorrectAnswer, model.TypeCheckbox:
	default:
		return nil
	}
	if q.SelectUpTo == 0 {
		return nil
	}

	selected, isSet := asSlice(value)
	if q.SelectUpTo == 1 {
		if isSet {
			return apperr.Validation("Answer should only contain one choice.")
		}
		return nil
	}
	if isSet && len(selected) > q.SelectUpTo {
		return apperr.Validation(fmt.Sprintf("Answer can only contain %d choices or less", q.SelectUpTo))
	}
	return nil
}

func text(maxLen int, wrongShape, tooLong string) rule {
	return func(q model.Question, value any) error {
		s, ok := value.(string)
		if !ok {
			return apperr.Validation(wrongShape)
		}
		if len(s) > maxLen {
			return apperr.Validation(tooLong)
		}
		return nil
	}
}

func singleChoice(q model.Question, value any) error {
	s, ok := asScalar(value)
	if !ok || !containsChoice(choiceList(q.Choices), s) {
		return apperr.Validation("Answer must be a valid choice.")
	}
	return nil
}

func multipleChoice(q model.Question, value any) error {
	// selectUpTo=1 downgrades the answer shape to a single scalar choice
	if q.SelectUpTo == 1 {
		return singleChoice(q, value)
	}

	selected, ok := asSlice(value)
	if !ok {
		return apperr.Validation("Answer must be an array for multiple correct answer.")
	}
	choices := choiceList(q.Choices)
	for _, v := range selected {
		s, ok := asScalar(v)
		if !ok || !containsChoice(choices, s) {
			return apperr.Validation("Answer must be a valid choice.")
		}
	}
	return nil
}

// choiceGrid expects a sequence of rows. A cell holding the sentinel "0"
// means "not selected" and is always accepted; any other cell must appear
// in the choice row at the same index.
func choiceGrid(q model.Question, value any) error {
	rows, ok := asSlice(value)
	if !ok {
		return apperr.Validation("Answer is not in a valid format")
	}
	choiceRows := choiceGridRows(q.Choices)
	for i, row := range rows {
		cells, ok := asSlice(row)
		if !ok {
			return apperr.Validation("Answer is not in a valid format")
		}
		var choices []string
		if i < len(choiceRows) {
			choices = choiceRows[i]
		}
		for _, cell := range cells {
			s, ok := asScalar(cell)
			if !ok {
				return apperr.Validation("Answer must be a valid choice.")
			}
			if s == "0" {
				continue
			}
			if !containsChoice(choices, s) {
				return apperr.Validation("Answer must be a valid choice.")
			}
		}
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
}

func date(q model.Question, value any) error {
	s, ok := value.(string)
	if !ok {
		return apperr.Validation("Answer must be a string for date.")
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return apperr.Validation("Answer must be a valid date.")
}

func clockTime(q model.Question, value any) error {
	s, ok := value.(string)
	if !ok || !strings.Contains(s, ":") {
		return apperr.Validation("Answer must be a valid time.")
	}
	return nil
}

func email(q model.Question, value any) error {
	s, ok := value.(string)
	if !ok {
		return apperr.Validation("Answer must be a string for email.")
	}
	if !strings.Contains(s, "@") {
		return apperr.Validation("Answer must be a valid email.")
	}
	return nil
}

func number(q model.Question, value any) error {
	switch v := value.(type) {
	case float64, float32, int, int64:
		return nil
	case string:
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return nil
		}
	}
	return apperr.Validation("Answer must be a number for numerical value.")
}

func undefined(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// asScalar renders a scalar JSON value as its choice-comparable string.
func asScalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	}
	return "", false
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func containsChoice(choices []string, s string) bool {
	for _, c := range choices {
		if c == s {
			return true
		}
	}
	return false
}

// choiceList coerces a question's choices to flat strings. Choices arrive
// either from JSON decoding ([]any) or from Go callers ([]string).
func choiceList(choices any) []string {
	switch cs := choices.(type) {
	case []string:
		return cs
	case []any:
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			if s, ok := asScalar(c); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func choiceGridRows(choices any) [][]string {
	switch cs := choices.(type) {
	case [][]string:
		return cs
	case []any:
		out := make([][]string, 0, len(cs))
		for _, row := range cs {
			out = append(out, choiceList(row))
		}
		return out
	}
	return nil
}
