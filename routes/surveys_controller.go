package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/httpx"
	"github.com/surveyforge/surveyforge/model"
	"github.com/surveyforge/surveyforge/policy"
	"github.com/surveyforge/surveyforge/routes/middlewares"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.SurveyInput
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		caller := middlewares.Caller(r)
		survey, err := model.NewSurvey(input, caller.Username)
		if err != nil {
			httpx.WriteError(w, r, "create_survey.validate", err)
			return
		}

		if err = app.InsertSurvey(r.Context(), &survey); err != nil {
			httpx.LogInternalError(w, r, "db.insert_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

// ListSurveys pages public surveys for anonymous callers, and the surveys
// shared with the caller when a token was supplied.
func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r, 5)
		caller := middlewares.Caller(r)

		var surveys []model.Survey
		var err error
		if caller.Authenticated {
			surveys, err = app.ListSurveysSharedWith(r.Context(), caller.Username, limit, offset)
		} else {
			surveys, err = app.ListPublicSurveys(r.Context(), limit, offset)
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_surveys", err)
			return
		}

		render.JSON(w, r, surveys)
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := loadSurveyForRead(app, r)
		if err != nil {
			httpx.WriteError(w, r, "get_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func PutSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.SurveyInput
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "update_survey", err)
			return
		}

		if err = survey.Put(input); err != nil {
			httpx.WriteError(w, r, "update_survey.validate", err)
			return
		}
		if err = app.UpdateSurvey(r.Context(), survey); err != nil {
			httpx.WriteError(w, r, "db.update_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func PatchSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch model.SurveyPatch
		err := render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.WriteError(w, r, "request.parse_body", apperr.Validation("Invalid request body"))
			return
		}

		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "patch_survey", err)
			return
		}

		if err = survey.Patch(patch); err != nil {
			httpx.WriteError(w, r, "patch_survey.validate", err)
			return
		}
		if err = app.UpdateSurvey(r.Context(), survey); err != nil {
			httpx.WriteError(w, r, "db.patch_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

// DeleteSurvey removes the survey definition. Answer sets already
// submitted against it are left in place.
func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := loadSurveyForWrite(app, r)
		if err != nil {
			httpx.WriteError(w, r, "delete_survey", err)
			return
		}

		if err = app.DeleteSurvey(r.Context(), survey.ID); err != nil {
			httpx.WriteError(w, r, "db.delete_survey", err)
			return
		}

		render.JSON(w, r, "Survey has been deleted!")
	}
}

func loadSurveyForRead(app app.App, r *http.Request) (*model.Survey, error) {
	survey, err := app.FindSurvey(r.Context(), chi.URLParam(r, "surveyId"))
	if err != nil {
		return nil, err
	}
	if err = policy.CheckRead(survey, middlewares.Caller(r)); err != nil {
		return nil, err
	}
	return survey, nil
}

func loadSurveyForWrite(app app.App, r *http.Request) (*model.Survey, error) {
	survey, err := app.FindSurvey(r.Context(), chi.URLParam(r, "surveyId"))
	if err != nil {
		return nil, err
	}
	if err = policy.CheckWrite(survey, middlewares.Caller(r)); err != nil {
		return nil, err
	}
	return survey, nil
}
