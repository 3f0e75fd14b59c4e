package app

import (
	"github.com/surveyforge/surveyforge/config"
	"github.com/surveyforge/surveyforge/store"
	"github.com/surveyforge/surveyforge/token"
)

type App struct {
	*store.Store
	*token.Service
	config.Config
}
