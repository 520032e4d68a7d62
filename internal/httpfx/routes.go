package httpfx

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/logrotated/pkg/catalog"
	"github.com/yurykabanov/logrotated/pkg/http/handler"
)

func RulesHandler(logger logrus.FieldLogger, source catalog.RuleSource, builder handler.CatalogBuilder) *handler.RulesHandler {
	return handler.NewRulesHandler(logger, source, builder)
}

func StateHandler(logger logrus.FieldLogger, journal handler.JournalRepository, packages handler.PackageRegistry) *handler.StateHandler {
	return handler.NewStateHandler(logger, journal, packages)
}

func RegisterRoutes(router *mux.Router, rules *handler.RulesHandler, state *handler.StateHandler) {
	router.HandleFunc("/rules", rules.List).Methods("GET")
	router.HandleFunc("/rules/{name}", rules.Show).Methods("GET")
	router.HandleFunc("/catalog.zip", rules.Archive).Methods("GET")
	router.HandleFunc("/packages", state.Packages).Methods("GET")
	router.HandleFunc("/journal/latest", state.LatestJournal).Methods("GET")
}
