package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		services := make(map[string]dtos.ServiceStatus)

		pgStatus := dtos.ServiceStatus{Status: "ok", Details: "Postgres Connected"}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db == nil {
			pgStatus = dtos.ServiceStatus{Status: "down", Details: "no database handle"}
		} else if err := db.PingContext(ctx); err != nil {
			pgStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["postgres"] = pgStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthResponse{
			Status:   overallStatus,
			Services: services,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, start, overallStatus, resp, code)
	}
}

// LivenessHandler handles GET /hc
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondSuccess(w, time.Now(), "ok", nil)
	}
}
