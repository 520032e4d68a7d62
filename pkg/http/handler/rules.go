package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/logrotated/pkg/appcontext"
	"github.com/yurykabanov/logrotated/pkg/catalog"
	"github.com/yurykabanov/logrotated/pkg/logrotate"
	"github.com/yurykabanov/logrotated/pkg/util"
)

type CatalogBuilder interface {
	Build(context.Context, []catalog.NamedParams) (*catalog.Catalog, error)
}

type RulesHandler struct {
	logger  logrus.FieldLogger
	source  catalog.RuleSource
	builder CatalogBuilder
}

func NewRulesHandler(logger logrus.FieldLogger, source catalog.RuleSource, builder CatalogBuilder) *RulesHandler {
	return &RulesHandler{
		logger:  logger,
		source:  source,
		builder: builder,
	}
}

type ruleResponse struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (h *RulesHandler) loadRules(w http.ResponseWriter, logger logrus.FieldLogger) ([]catalog.NamedParams, bool) {
	rules, err := h.source.Load()
	if err != nil {
		logger.WithError(err).Error("Unable to load rules")
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}

	return rules, true
}

// List responds with every declared rule and its validation status.
func (h *RulesHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := appcontext.LoggerFromContext(h.logger, r.Context())

	rules, ok := h.loadRules(w, logger)
	if !ok {
		return
	}

	result := make([]ruleResponse, 0, len(rules))

	for _, rule := range rules {
		resp := ruleResponse{Name: rule.Name, Valid: true}

		if _, err := logrotate.Normalize(rule.Name, rule.Params); err != nil {
			resp.Valid = false
			resp.Error = err.Error()
		}

		result = append(result, resp)
	}

	writeJSON(w, logger, result)
}

// Show responds with the rendered stanza of a single rule.
func (h *RulesHandler) Show(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	logger := appcontext.LoggerFromContext(h.logger, appcontext.WithRuleName(r.Context(), name))

	rules, ok := h.loadRules(w, logger)
	if !ok {
		return
	}

	for _, rule := range rules {
		if rule.Name != name {
			continue
		}

		content, err := logrotate.RenderParams(rule.Name, rule.Params)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(content))
		return
	}

	http.NotFound(w, r)
}

// Archive responds with a zip of every file the catalog would write.
func (h *RulesHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logger := appcontext.LoggerFromContext(h.logger, ctx)

	rules, ok := h.loadRules(w, logger)
	if !ok {
		return
	}

	// invalid rules are simply not in the archive
	c, _ := h.builder.Build(ctx, rules)

	entries := make([]util.ZipEntry, 0, len(c.Files))
	for _, f := range c.Files {
		entries = append(entries, util.ZipEntry{
			Name:    path.Base(f.Path),
			Content: []byte(f.Content),
			Mode:    f.Mode,
		})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="logrotate.d.zip"`)

	err := util.ZipFiles(w, entries, time.Now())
	if err != nil {
		logger.WithError(err).Error("Unable to write archive")
	}
}

func writeJSON(w http.ResponseWriter, logger logrus.FieldLogger, v interface{}) {
	buf := &bytes.Buffer{}

	err := json.NewEncoder(buf).Encode(v)
	if err != nil {
		logger.WithError(err).Error("Unable to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	_, err = buf.WriteTo(w)
	if err != nil {
		logger.WithError(err).Error("Unable to write response")
	}
}
