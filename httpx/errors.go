package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/surveyforge/surveyforge/apperr"
	"github.com/surveyforge/surveyforge/log"
)

// Will log an error, and send an HTTP response with status 500 and a generic body
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]any{"error": http.StatusText(http.StatusInternalServerError)})
}

// WriteError translates a core error to its response: taxonomy errors map to
// their status with the reason in the body, everything else is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status := statusOf(apperr.KindOf(err))
	if status == 0 {
		LogInternalError(w, r, code, err)
		return
	}

	log.Debugf("%s: %s", code, err)
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": err.Error()})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return 0
}
