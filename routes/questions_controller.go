package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/httpx"
	"github.com/surveyforge/surveyforge/model"
	"github.com/surveyforge/surveyforge/routes/middlewares"
)

func GetSurveyQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := loadSurveyForRead(app, r)
		if err != nil {
			httpx.WriteError(w, r, "get_questions", err)
			return
		}

		render.JSON(w, r, survey.Questions)
	}
}

func AddQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.Question
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "add_question", err)
			return
		}

		question, err := survey.AddQuestion(input)
		if err != nil {
			httpx.WriteError(w, r, "add_question.validate", err)
			return
		}
		if err = app.UpdateSurvey(r.Context(), survey); err != nil {
			httpx.WriteError(w, r, "db.add_question", err)
			return
		}

		render.JSON(w, r, question)
	}
}

func GetQuestionById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := loadSurveyForRead(app, r)
		if err != nil {
			httpx.WriteError(w, r, "get_question", err)
			return
		}

		question := survey.Question(chi.URLParam(r, "questionId"))
		if question == nil {
			httpx.WriteError(w, r, "get_question", apperr.NotFound("Question not found."))
			return
		}

		render.JSON(w, r, question)
	}
}

func PutQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.Question
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "update_question", err)
			return
		}

		question := survey.Question(chi.URLParam(r, "questionId"))
		if question == nil {
			httpx.WriteError(w, r, "update_question", apperr.NotFound("Question not found."))
			return
		}

		if err = question.Put(input); err != nil {
			httpx.WriteError(w, r, "update_question.validate", err)
			return
		}
		if err = app.UpdateSurvey(r.Context(), survey); err != nil {
			httpx.WriteError(w, r, "db.update_question", err)
			return
		}

		render.JSON(w, r, question)
	}
}

func PatchQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.QuestionPatch
		err := render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "patch_question", err)
			return
		}

		question := survey.Question(chi.URLParam(r, "questionId"))
		if question == nil {
			httpx.WriteError(w, r, "patch_question", apperr.NotFound("Question not found."))
			return
		}

		if err = question.Patch(patch); err != nil {
			httpx.WriteError(w, r, "patch_question.validate", err)
			return
		}
		if err = app.UpdateSurvey(r.Context(), survey); err != nil {
			httpx.WriteError(w, r, "db.patch_question", err)
			return
		}

		render.JSON(w, r, question)
	}
}

func DeleteQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "delete_question", err)
			return
		}

		if !survey.RemoveQuestion(chi.URLParam(r, "questionId")) {
			httpx.WriteError(w, r, "delete_question", apperr.NotFound("Question not found."))
			return
		}
		if err = app.UpdateSurvey(r.Context(), survey); err != nil {
			httpx.WriteError(w, r, "db.delete_question", err)
			return
		}

		render.JSON(w, r, "Question has been deleted!")
	}
}

// ListQuestions pages through the questions of every survey the caller
// may read.
func ListQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r, 10)
		caller := middlewares.Caller(r)

		surveys, err := app.ListSurveysReadableBy(r.Context(), caller.Username, limit, offset)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_questions", err)
			return
		}

		questions := [][]model.Question{}
		for _, survey := range surveys {
			questions = append(questions, survey.Questions)
		}
		render.JSON(w, r, questions)
	}
}
