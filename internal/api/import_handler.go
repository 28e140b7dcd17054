package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tyrehub/catalog/internal/auth"
	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/importer"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/models/dtos"
)

const defaultRunsLimit = 20

// ImportHandler handles the admin import endpoints. Runs outlive the request
// that starts them, so they are bound to baseCtx instead.
type ImportHandler struct {
	job     ImportTrigger
	file    string
	baseCtx context.Context
}

func NewImportHandler(baseCtx context.Context, job ImportTrigger, file string) *ImportHandler {
	return &ImportHandler{
		job:     job,
		file:    file,
		baseCtx: baseCtx,
	}
}

// TriggerImport handles POST /api/v1/admin/import
func (h *ImportHandler) TriggerImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if h.job == nil || h.file == "" {
			common.RespondError(w, start, nil, constants.MsgImportUnavailable, http.StatusServiceUnavailable)
			return
		}

		subject := ""
		if claims := auth.GetClaims(r.Context()); claims != nil {
			subject = claims.Subject
		}
		requestID := auth.GetRequestID(r.Context())

		err := h.job.Start(h.baseCtx, h.file, constants.ImportTriggerAPI, func(res *dtos.ImportResult, err error) {
			if err != nil {
				logging.Error("Admin import failed",
					"request_id", requestID,
					"triggered_by", subject,
					"error", err,
				)
				return
			}
			logging.Info("Admin import finished",
				"request_id", requestID,
				"triggered_by", subject,
				"run_id", res.RunID,
				"processed", res.Processed,
				"skipped", res.Skipped,
			)
		})
		if errors.Is(err, importer.ErrRunInProgress) {
			common.RespondError(w, start, nil, constants.MsgImportInProgress, http.StatusConflict)
			return
		}
		if err != nil {
			logging.Error("Admin import could not start", "request_id", requestID, "error", err)
			common.RespondError(w, start, nil, constants.MsgInternalError, http.StatusInternalServerError)
			return
		}

		logging.Info("Admin import started", "request_id", requestID, "triggered_by", subject, "file", h.file)
		common.RespondSuccess(w, start, constants.MsgImportStarted, dtos.ImportStartedResponse{File: h.file}, http.StatusAccepted)
	}
}

// ListRuns handles GET /api/v1/admin/import/runs?limit=
func (h *ImportHandler) ListRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if h.job == nil {
			common.RespondError(w, start, nil, constants.MsgImportUnavailable, http.StatusServiceUnavailable)
			return
		}

		limit := defaultRunsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > constants.MaxLimit {
				common.RespondError(w, start, nil, constants.MsgInvalidQuery, http.StatusBadRequest)
				return
			}
			limit = n
		}

		runs, err := h.job.RecentRuns(r.Context(), limit)
		if err != nil {
			logging.Error("List import runs failed", "error", err)
			common.RespondError(w, start, nil, constants.MsgInternalError, http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, start, "", runs)
	}
}
