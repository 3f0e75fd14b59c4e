package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/routes/middlewares"
	"github.com/surveyforge/surveyforge/store"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()
	api.Use(middlewares.Authenticate(app))

	api.Post("/token/signup", Signup(app))
	api.Post("/token/login", Login(app))

	api.Route("/surveys", func(r chi.Router) {
		r.Post("/", CreateSurvey(app))
		r.Get("/", ListSurveys(app))

		r.Route("/{surveyId}", func(r chi.Router) {
			r.Get("/", GetSurveyById(app))
			r.Put("/", PutSurvey(app))
			r.Patch("/", PatchSurvey(app))
			r.Delete("/", DeleteSurvey(app))

			r.Get("/questions", GetSurveyQuestions(app))
			r.Post("/questions", AddQuestion(app))
			r.Get("/questions/{questionId}", GetQuestionById(app))
			r.Put("/questions/{questionId}", PutQuestion(app))
			r.Patch("/questions/{questionId}", PatchQuestion(app))
			r.Delete("/questions/{questionId}", DeleteQuestion(app))

			r.Get("/answers", GetSurveyAnswers(app))
			r.Post("/answers", SubmitAnswer(app))
			r.Get("/answers/{answerId}", GetAnswerById(app))
			r.Put("/answers/{answerId}", PutAnswer(app))
			r.Patch("/answers/{answerId}", PatchAnswer(app))
			r.Delete("/answers/{answerId}", DeleteAnswer(app))
		})
	})

	// cross-survey listings keep their own default page size
	api.Get("/questions", ListQuestions(app))
	api.Get("/answers", ListPublicAnswers(app))

	return api
}

func pagination(r *http.Request, defaultSize int) (limit, offset int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return store.Page(page, size, defaultSize)
}
