// Package policy holds the pure access-control decisions over a survey's
// visibility, ownership and sharing state.
package policy

import (
	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/model"
)

// Caller is the identity resolved from a bearer token. The zero value is
// an anonymous caller.
type Caller struct {
	Username      string
	Authenticated bool
}

func Anonymous() Caller {
	return Caller{}
}

func User(username string) Caller {
	return Caller{Username: username, Authenticated: true}
}

// CanRead reports whether the caller may see the survey and its questions.
func CanRead(s *model.Survey, c Caller) bool {
	if s.Public {
		return true
	}
	if !c.Authenticated {
		return false
	}
	return s.IsSharedWith(c.Username) || s.CreatedBy == c.Username
}

// CheckRead is CanRead with the denial reason attached.
func CheckRead(s *model.Survey, c Caller) error {
	if CanRead(s, c) {
		return nil
	}
	if !c.Authenticated {
		return apperr.Authentication("This survey is private. Please login.")
	}
	return apperr.Authorization("This survey is private and is not shared with you")
}

// CheckWrite decides whether the caller may update or delete the survey
// definition. An unowned survey is writable by anyone.
func CheckWrite(s *model.Survey, c Caller) error {
	if s.CreatedBy == "" {
		return nil
	}
	if !c.Authenticated {
		return apperr.Authentication("You are not logged in...")
	}
	if s.CreatedBy != c.Username {
		return apperr.Authorization("You are not the owner...")
	}
	return nil
}

// CheckRespond decides whether the caller may submit a new answer set.
// Identified callers get at most one response per survey; anonymous
// callers are never deduplicated.
func CheckRespond(s *model.Survey, c Caller) error {
	if !s.Public {
		if !c.Authenticated {
			return apperr.Authentication("This survey is private. Please login.")
		}
		if !s.IsSharedWith(c.Username) && s.CreatedBy != c.Username {
			return apperr.Authorization("This survey is private and is not shared with you")
		}
	}
	if c.Authenticated && s.HasResponded(c.Username) {
		return apperr.Authorization("You have already responded to this survey")
	}
	return nil
}

// CheckRespondUpdate decides whether the caller may replace an existing
// answer set on the survey.
func CheckRespondUpdate(s *model.Survey, c Caller) error {
	if s.Public {
		return nil
	}
	if !c.Authenticated {
		return apperr.Authentication("This survey is private. Please login.")
	}
	if !s.HasResponded(c.Username) {
		return apperr.Authorization("You have not responded to this survey yet")
	}
	if !s.IsSharedWith(c.Username) && s.CreatedBy != c.Username {
		return apperr.Authorization("This survey is private and is not shared with you")
	}
	return nil
}
