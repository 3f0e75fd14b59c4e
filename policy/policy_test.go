package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/model"
)

func privateSurvey() *model.Survey {
	return &model.Survey{
		ID:         "s1",
		Heading:    "Private survey",
		Public:     false,
		SharedWith: []string{"alice"},
		CreatedBy:  "carol",
	}
}

func TestCanRead(t *testing.T) {
	public := &model.Survey{ID: "s2", Public: true}

	assert.True(t, CanRead(public, Anonymous()))
	assert.True(t, CanRead(public, User("bob")))

	private := privateSurvey()
	assert.False(t, CanRead(private, Anonymous()))
	assert.False(t, CanRead(private, User("bob")))
	assert.True(t, CanRead(private, User("alice")))
	assert.True(t, CanRead(private, User("carol")), "owner can read")
}

func TestCheckRead(t *testing.T) {
	private := privateSurvey()

	err := CheckRead(private, Anonymous())
	assert.EqualError(t, err, "This survey is private. Please login.")
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))

	err = CheckRead(private, User("bob"))
	assert.EqualError(t, err, "This survey is private and is not shared with you")
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	assert.NoError(t, CheckRead(private, User("alice")))
}

func TestCheckWrite(t *testing.T) {
	owned := privateSurvey()

	err := CheckWrite(owned, Anonymous())
	assert.EqualError(t, err, "You are not logged in...")
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))

	err = CheckWrite(owned, User("alice"))
	assert.EqualError(t, err, "You are not the owner...")
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	assert.NoError(t, CheckWrite(owned, User("carol")))

	unowned := &model.Survey{ID: "s3", Public: true}
	assert.NoError(t, CheckWrite(unowned, Anonymous()), "unowned surveys are writable by anyone")
	assert.NoError(t, CheckWrite(unowned, User("bob")))
}

func TestCheckRespondPrivate(t *testing.T) {
	private := privateSurvey()

	err := CheckRespond(private, Anonymous())
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))

	err = CheckRespond(private, User("bob"))
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	assert.NoError(t, CheckRespond(private, User("alice")))

	private.MarkResponded("alice")
	err = CheckRespond(private, User("alice"))
	assert.EqualError(t, err, "You have already responded to this survey")
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestCheckRespondPublic(t *testing.T) {
	public := &model.Survey{ID: "s2", Public: true}

	assert.NoError(t, CheckRespond(public, Anonymous()))

	public.MarkResponded("bob")
	assert.EqualError(t, CheckRespond(public, User("bob")), "You have already responded to this survey")

	// anonymous callers are never deduplicated
	assert.NoError(t, CheckRespond(public, Anonymous()))
}

func TestCheckRespondUpdate(t *testing.T) {
	private := privateSurvey()

	err := CheckRespondUpdate(private, User("alice"))
	assert.EqualError(t, err, "You have not responded to this survey yet")

	private.MarkResponded("alice")
	assert.NoError(t, CheckRespondUpdate(private, User("alice")))

	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(CheckRespondUpdate(private, Anonymous())))

	public := &model.Survey{ID: "s2", Public: true}
	assert.NoError(t, CheckRespondUpdate(public, Anonymous()))
}
