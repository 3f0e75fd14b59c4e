package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/httpx"
	"github.com/surveyforge/surveyforge/model"
	"github.com/surveyforge/surveyforge/policy"
	"github.com/surveyforge/surveyforge/routes/middlewares"
	"github.com/surveyforge/surveyforge/validate"
)

// submitRetries bounds how often a submission's atomic survey update is
// retried after losing a concurrent-update race.
const submitRetries = 3

type answerRequest struct {
	Answers []model.AnswerEntry `json:"answers"`
}

func GetSurveyAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := loadSurveyForRead(app, r)
		if err != nil {
			httpx.WriteError(w, r, "get_answers", err)
			return
		}

		answers, err := app.AnswersBySurvey(r.Context(), survey.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_answers", err)
			return
		}

		render.JSON(w, r, answers)
	}
}

// SubmitAnswer validates and stores a new answer set, marking identified
// callers as responded in the same transaction. The whole
// load-check-store sequence reruns when the survey changed underneath.
func SubmitAnswer(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data answerRequest
		err := render.DecodeJSON(r.Body, &data)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		caller := middlewares.Caller(r)
		surveyId := chi.URLParam(r, "surveyId")

		var answer *model.Answer
		for attempt := 0; attempt < submitRetries; attempt++ {
			survey, err := app.FindSurvey(r.Context(), surveyId)
			if err != nil {
				httpx.WriteError(w, r, "submit_answer.get_survey", err)
				return
			}
			if err = policy.CheckRespond(survey, caller); err != nil {
				httpx.WriteError(w, r, "submit_answer.policy", err)
				return
			}
			if err = validate.Set(survey, data.Answers); err != nil {
				httpx.WriteError(w, r, "submit_answer.validate", err)
				return
			}

			answer = &model.Answer{
				ID:       uuid.NewString(),
				SurveyID: survey.ID,
				Entries:  data.Answers,
			}
			if caller.Authenticated {
				survey.MarkResponded(caller.Username)
			}

			err = app.SubmitResponse(r.Context(), survey, answer)
			if apperr.KindOf(err) == apperr.KindConflict {
				continue
			}
			if err != nil {
				httpx.WriteError(w, r, "db.insert_answer", err)
				return
			}

			render.JSON(w, r, answer)
			return
		}

		httpx.WriteError(w, r, "submit_answer.retries", apperr.Conflict("Survey was modified concurrently"))
	}
}

func GetAnswerById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		answer, err := app.FindAnswer(r.Context(), chi.URLParam(r, "answerId"))
		if err != nil {
			httpx.WriteError(w, r, "get_answer", err)
			return
		}

		render.JSON(w, r, answer)
	}
}

func PutAnswer(app app.App) http.HandlerFunc {
	return updateAnswer(app)
}

// PatchAnswer matches PutAnswer: an answer-set update always replaces the
// whole entry sequence.
func PatchAnswer(app app.App) http.HandlerFunc {
	return updateAnswer(app)
}

func updateAnswer(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data answerRequest
		err := render.DecodeJSON(r.Body, &data)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		survey, err := app.FindSurvey(r.Context(), chi.URLParam(r, "surveyId"))
		if err != nil {
			httpx.WriteError(w, r, "update_answer.get_survey", err)
			return
		}
		answer, err := app.FindAnswer(r.Context(), chi.URLParam(r, "answerId"))
		if err != nil {
			httpx.WriteError(w, r, "update_answer.get_answer", err)
			return
		}

		if err = policy.CheckRespondUpdate(survey, middlewares.Caller(r)); err != nil {
			httpx.WriteError(w, r, "update_answer.policy", err)
			return
		}
		if err = validate.Set(survey, data.Answers); err != nil {
			httpx.WriteError(w, r, "update_answer.validate", err)
			return
		}

		answer.Entries = data.Answers
		if err = app.UpdateAnswer(r.Context(), answer); err != nil {
			httpx.WriteError(w, r, "db.update_answer", err)
			return
		}

		render.JSON(w, r, answer)
	}
}

func DeleteAnswer(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		answerId := chi.URLParam(r, "answerId")
		if _, err := app.FindAnswer(r.Context(), answerId); err != nil {
			httpx.WriteError(w, r, "delete_answer", err)
			return
		}

		if err := app.DeleteAnswer(r.Context(), answerId); err != nil {
			httpx.WriteError(w, r, "db.delete_answer", err)
			return
		}

		render.JSON(w, r, "Answer has been deleted!")
	}
}

// ListPublicAnswers pages through stored answer sets and returns the
// entries of those belonging to public surveys.
func ListPublicAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r, 10)

		answers, err := app.ListAnswers(r.Context(), limit, offset)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_answers", err)
			return
		}

		publicAnswers := [][]model.AnswerEntry{}
		for _, answer := range answers {
			survey, err := app.FindSurvey(r.Context(), answer.SurveyID)
			if err != nil {
				// survey deleted from under its answers
				continue
			}
			if survey.Public {
				publicAnswers = append(publicAnswers, answer.Entries)
			}
		}

		render.JSON(w, r, publicAnswers)
	}
}
