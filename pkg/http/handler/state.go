package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/logrotated/pkg/appcontext"
	"github.com/yurykabanov/logrotated/pkg/catalog"
)

type JournalRepository interface {
	FindLatest(context.Context) ([]catalog.JournalEntry, error)
}

type PackageRegistry interface {
	Declared() []catalog.PackageResource
}

type StateHandler struct {
	logger   logrus.FieldLogger
	journal  JournalRepository
	packages PackageRegistry
}

func NewStateHandler(logger logrus.FieldLogger, journal JournalRepository, packages PackageRegistry) *StateHandler {
	return &StateHandler{
		logger:   logger,
		journal:  journal,
		packages: packages,
	}
}

type journalEntryResponse struct {
	RunId        string `json:"run_id"`
	ResourceType string `json:"resource_type"`
	ResourceName string `json:"resource_name"`
	Path         string `json:"path,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	AppliedAt    int64  `json:"applied_at_mtime"`
}

func (h *StateHandler) Packages(w http.ResponseWriter, r *http.Request) {
	logger := appcontext.LoggerFromContext(h.logger, r.Context())

	writeJSON(w, logger, h.packages.Declared())
}

func (h *StateHandler) LatestJournal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logger := appcontext.LoggerFromContext(h.logger, ctx)

	entries, err := h.journal.FindLatest(ctx)
	if err != nil {
		logger.WithError(err).Error("Unable to query journal")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result := make([]journalEntryResponse, 0, len(entries))

	for _, e := range entries {
		result = append(result, journalEntryResponse{
			RunId:        e.RunId,
			ResourceType: e.ResourceType,
			ResourceName: e.ResourceName,
			Path:         e.Path,
			Checksum:     e.Checksum,
			Status:       string(e.Status),
			Error:        e.Error,
			AppliedAt:    e.AppliedAt.UnixNano() / 1e6,
		})
	}

	writeJSON(w, logger, result)
}
