package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/surveyforge/surveyforge/app"
	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/httpx"
	"github.com/surveyforge/surveyforge/model"
	"github.com/surveyforge/surveyforge/token"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Signup(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentialsRequest
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil || creds.Username == "" || creds.Password == "" {
			httpx.WriteError(w, r, "signup.parse_body", apperr.Validation("Username and password are required."))
			return
		}

		hash, err := token.HashPassword(creds.Password)
		if err != nil {
			httpx.LogInternalError(w, r, "signup.hash", err)
			return
		}

		user := model.User{Username: creds.Username, PasswordHash: hash}
		if err = app.InsertUser(r.Context(), &user); err != nil {
			httpx.WriteError(w, r, "db.insert_user", err)
			return
		}

		issueToken(app, w, r, creds.Username)
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds credentialsRequest
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil {
			httpx.WriteError(w, r, "login.parse_body", apperr.Validation("Username and password are required."))
			return
		}

		user, err := app.FindUser(r.Context(), creds.Username)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				err = apperr.Authentication("User does not exist")
			}
			httpx.WriteError(w, r, "login.find_user", err)
			return
		}

		if !token.CheckPassword(user.PasswordHash, creds.Password) {
			httpx.WriteError(w, r, "login.password", apperr.Authentication("Invalid password"))
			return
		}

		issueToken(app, w, r, user.Username)
	}
}

func issueToken(app app.App, w http.ResponseWriter, r *http.Request, username string) {
	signed, err := app.Issue(username)
	if err != nil {
		httpx.LogInternalError(w, r, "token.issue", err)
		return
	}
	render.JSON(w, r, map[string]any{"token": signed})
}
