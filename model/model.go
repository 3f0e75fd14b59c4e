package model

// Question types a survey may declare. Choice-based types validate their
// answers against the question's choice list.
const (
	TypeShortQuestion         = "short-question"
	TypeParagraph             = "paragraph"
	TypeDropdown              = "dropdown"
	TypeMultipleChoice        = "multiple-choice"
	TypeSingleCorrectAnswer   = "single-correct-answer"
	TypeMultipleCorrectAnswer = "multiple-correct-answer"
	TypeCheckbox              = "checkbox"
	TypeLinearScale           = "linear-scale"
	TypeDate                  = "date"
	TypeTime                  = "time"
	TypeMultipleChoiceGrid    = "multiple-choice-grid"
	TypeEmail                 = "email"
	TypeNumericalValue        = "numerical-value"
)

var questionTypes = map[string]bool{
	TypeShortQuestion:         true,
	TypeParagraph:             true,
	TypeDropdown:              true,
	TypeMultipleChoice:        true,
	TypeSingleCorrectAnswer:   true,
	TypeMultipleCorrectAnswer: true,
	TypeCheckbox:              true,
	TypeLinearScale:           true,
	TypeMultipleChoiceGrid:    true,
	TypeDate:                  true,
	TypeTime:                  true,
	TypeEmail:                 true,
	TypeNumericalValue:        true,
}

func ValidQuestionType(t string) bool {
	return questionTypes[t]
}

type Question struct {
	ID          string `json:"id,omitempty"`
	Heading     string `json:"heading"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	// Choices is a list of strings for choice-based types, or a list of
	// string rows for multiple-choice-grid.
	Choices    any `json:"choices,omitempty"`
	SelectUpTo int `json:"selectUpTo,omitempty"`
}

type Survey struct {
	ID             string     `json:"id,omitempty"`
	Version        int        `json:"version,omitempty"`
	Heading        string     `json:"heading"`
	Description    string     `json:"description,omitempty"`
	Questions      []Question `json:"questions"`
	Public         bool       `json:"public"`
	SharedWith     []string   `json:"sharedWith,omitempty"`
	RespondedUsers []string   `json:"respondedUsers,omitempty"`
	CreatedBy      string     `json:"createdBy,omitempty"`
}

// Answer is one submitted answer set for a survey.
type Answer struct {
	ID       string        `json:"id,omitempty"`
	SurveyID string        `json:"surveyId"`
	Entries  []AnswerEntry `json:"answers"`
}

// AnswerEntry pairs a question with a candidate value. The legal shape of
// Value depends on the referenced question's type.
type AnswerEntry struct {
	QuestionID string `json:"questionId"`
	Value      any    `json:"answer"`
}

type User struct {
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
}
