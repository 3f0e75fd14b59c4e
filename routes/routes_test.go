package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/config"
	"github.com/surveyforge/surveyforge/database"
	"github.com/surveyforge/surveyforge/model"
	"github.com/surveyforge/surveyforge/store"
	"github.com/surveyforge/surveyforge/token"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		DBUrl:       fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return Wire(app.App{
		Store:   store.New(db),
		Service: token.NewService(cfg.TokenSecret, cfg.TokenTTL),
		Config:  cfg,
	})
}

func request(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func signup(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	w := request(t, h, http.MethodPost, "/api/token/signup", "", map[string]string{
		"username": username,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]string](t, w)["token"]
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func choiceSurvey(public bool, sharedWith []string) map[string]any {
	return map[string]any{
		"heading": "Favorite number",
		"public":  public,
		"questions": []map[string]any{
			{"heading": "Pick one", "type": "multiple-choice", "choices": []string{"1", "2", "3", "4"}},
		},
		"sharedWith": sharedWith,
	}
}

func TestTokenEndpoints(t *testing.T) {
	h := testHandler(t)

	tok := signup(t, h, "alice")
	require.NotEmpty(t, tok)

	w := request(t, h, http.MethodPost, "/api/token/signup", "", map[string]string{
		"username": "alice",
		"password": "other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already exists", errorMessage(t, w))

	w = request(t, h, http.MethodPost, "/api/token/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid password", errorMessage(t, w))

	w = request(t, h, http.MethodPost, "/api/token/login", "", map[string]string{
		"username": "nobody",
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User does not exist", errorMessage(t, w))

	w = request(t, h, http.MethodPost, "/api/token/login", "", map[string]string{
		"username": "alice",
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// malformed bearer token fails the request instead of degrading to anonymous
	w = request(t, h, http.MethodGet, "/api/surveys", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, w))
}

func TestSurveyCRUD(t *testing.T) {
	h := testHandler(t)

	w := request(t, h, http.MethodPost, "/api/surveys", "", choiceSurvey(true, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[model.Survey](t, w)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Questions, 1)

	w = request(t, h, http.MethodGet, "/api/surveys/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Favorite number", decode[model.Survey](t, w).Heading)

	w = request(t, h, http.MethodPatch, "/api/surveys/"+created.ID, "", map[string]any{
		"heading": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[model.Survey](t, w)
	assert.Equal(t, "Renamed", patched.Heading)
	assert.Len(t, patched.Questions, 1, "patch leaves absent fields alone")

	w = request(t, h, http.MethodPut, "/api/surveys/"+created.ID, "", map[string]any{
		"heading":   "Replaced",
		"questions": []map[string]any{{"type": "paragraph", "heading": "Explain"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replaced := decode[model.Survey](t, w)
	assert.Equal(t, "Replaced", replaced.Heading)
	assert.True(t, replaced.Public, "omitted public flag resets to default")

	w = request(t, h, http.MethodPost, "/api/surveys", "", map[string]any{"heading": "No questions"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Questions are required.", errorMessage(t, w))

	w = request(t, h, http.MethodDelete, "/api/surveys/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, h, http.MethodGet, "/api/surveys/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSurveyOwnership(t *testing.T) {
	h := testHandler(t)
	owner := signup(t, h, "owner")
	intruder := signup(t, h, "intruder")

	w := request(t, h, http.MethodPost, "/api/surveys", owner, choiceSurvey(true, nil))
	require.Equal(t, http.StatusOK, w.Code)
	survey := decode[model.Survey](t, w)
	assert.Equal(t, "owner", survey.CreatedBy)

	w = request(t, h, http.MethodDelete, "/api/surveys/"+survey.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You are not logged in...", errorMessage(t, w))

	w = request(t, h, http.MethodDelete, "/api/surveys/"+survey.ID, intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not the owner...", errorMessage(t, w))

	w = request(t, h, http.MethodDelete, "/api/surveys/"+survey.ID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuestionEndpoints(t *testing.T) {
	h := testHandler(t)

	w := request(t, h, http.MethodPost, "/api/surveys", "", choiceSurvey(true, nil))
	require.Equal(t, http.StatusOK, w.Code)
	survey := decode[model.Survey](t, w)
	base := "/api/surveys/" + survey.ID + "/questions"

	w = request(t, h, http.MethodPost, base, "", map[string]any{
		"heading": "Your email",
		"type":    "email",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[model.Question](t, w)
	require.NotEmpty(t, added.ID)

	w = request(t, h, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Question](t, w), 2)

	w = request(t, h, http.MethodPatch, base+"/"+added.ID, "", map[string]any{
		"heading": "Work email",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Work email", decode[model.Question](t, w).Heading)
	assert.Equal(t, "email", decode[model.Question](t, w).Type)

	w = request(t, h, http.MethodPut, base+"/"+added.ID, "", map[string]any{
		"heading": "Rating",
		"type":    "linear-scale",
		"choices": []string{"1", "2", "3"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "linear-scale", decode[model.Question](t, w).Type)

	w = request(t, h, http.MethodPost, base, "", map[string]any{"type": "guess"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a valid Question Type.", errorMessage(t, w))

	w = request(t, h, http.MethodDelete, base+"/"+added.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, h, http.MethodGet, base+"/"+added.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Question not found.", errorMessage(t, w))
}

func TestPrivateSurveyResponseFlow(t *testing.T) {
	h := testHandler(t)
	owner := signup(t, h, "owner")
	alice := signup(t, h, "alice")
	bob := signup(t, h, "bob")

	w := request(t, h, http.MethodPost, "/api/surveys", owner, choiceSurvey(false, []string{"alice"}))
	require.Equal(t, http.StatusOK, w.Code)
	survey := decode[model.Survey](t, w)
	questionId := survey.Questions[0].ID
	answersPath := "/api/surveys/" + survey.ID + "/answers"

	answer := func(value any) map[string]any {
		return map[string]any{
			"answers": []map[string]any{{"questionId": questionId, "answer": value}},
		}
	}

	w = request(t, h, http.MethodPost, answersPath, "", answer("2"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "This survey is private. Please login.", errorMessage(t, w))

	w = request(t, h, http.MethodPost, answersPath, bob, answer("2"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "This survey is private and is not shared with you", errorMessage(t, w))

	w = request(t, h, http.MethodPost, answersPath, alice, answer("a"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Answer must be a valid choice.", errorMessage(t, w))

	w = request(t, h, http.MethodPost, answersPath, alice, answer("2"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := decode[model.Answer](t, w)
	require.NotEmpty(t, stored.ID)
	assert.Equal(t, survey.ID, stored.SurveyID)

	w = request(t, h, http.MethodPost, answersPath, alice, answer("3"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You have already responded to this survey", errorMessage(t, w))

	// alice may still replace her stored answer set
	w = request(t, h, http.MethodPut, answersPath+"/"+stored.ID, alice, answer("4"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "4", decode[model.Answer](t, w).Entries[0].Value)

	w = request(t, h, http.MethodGet, answersPath, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Answer](t, w), 1)

	w = request(t, h, http.MethodGet, answersPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnswerValidationErrors(t *testing.T) {
	h := testHandler(t)

	w := request(t, h, http.MethodPost, "/api/surveys", "", choiceSurvey(true, nil))
	require.Equal(t, http.StatusOK, w.Code)
	survey := decode[model.Survey](t, w)
	answersPath := "/api/surveys/" + survey.ID + "/answers"

	w = request(t, h, http.MethodPost, answersPath, "", map[string]any{"answers": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Answers are required.", errorMessage(t, w))

	w = request(t, h, http.MethodPost, answersPath, "", map[string]any{
		"answers": []map[string]any{{"questionId": "missing", "answer": "2"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Question does not belong to survey", errorMessage(t, w))

	w = request(t, h, http.MethodPost, "/api/surveys/does-not-exist/answers", "", map[string]any{
		"answers": []map[string]any{{"questionId": "q", "answer": "2"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousRespondersAreNotDeduplicated(t *testing.T) {
	h := testHandler(t)

	w := request(t, h, http.MethodPost, "/api/surveys", "", choiceSurvey(true, nil))
	require.Equal(t, http.StatusOK, w.Code)
	survey := decode[model.Survey](t, w)
	answersPath := "/api/surveys/" + survey.ID + "/answers"
	questionId := survey.Questions[0].ID

	for i := 0; i < 2; i++ {
		w = request(t, h, http.MethodPost, answersPath, "", map[string]any{
			"answers": []map[string]any{{"questionId": questionId, "answer": "1"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = request(t, h, http.MethodGet, answersPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Answer](t, w), 2)
}

func TestCrossSurveyListings(t *testing.T) {
	h := testHandler(t)
	alice := signup(t, h, "alice")

	w := request(t, h, http.MethodPost, "/api/surveys", "", choiceSurvey(true, nil))
	require.Equal(t, http.StatusOK, w.Code)
	public := decode[model.Survey](t, w)

	w = request(t, h, http.MethodPost, "/api/surveys", "", choiceSurvey(false, []string{"alice"}))
	require.Equal(t, http.StatusOK, w.Code)

	// seed one public answer
	w = request(t, h, http.MethodPost, "/api/surveys/"+public.ID+"/answers", "", map[string]any{
		"answers": []map[string]any{{"questionId": public.Questions[0].ID, "answer": "3"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, h, http.MethodGet, "/api/questions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[][]model.Question](t, w), 1, "anonymous callers see public questions only")

	w = request(t, h, http.MethodGet, "/api/questions", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[][]model.Question](t, w), 2)

	w = request(t, h, http.MethodGet, "/api/answers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[][]model.AnswerEntry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "3", entries[0][0].Value)

	w = request(t, h, http.MethodGet, "/api/surveys", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Survey](t, w), 1, "anonymous listing shows public surveys")

	w = request(t, h, http.MethodGet, "/api/surveys", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Survey](t, w), 1, "authenticated listing shows shared surveys")
}
