// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package api

import (
	"net/http"

	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/postgres"
	"github.com/critikahq/critika/internal/platform/redis"
	"github.com/critikahq/critika/internal/platform/respond"
)

// health handles GET /health: process liveness only, no dependency checks.
func (s *Server) health(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// ready handles GET /ready: readiness including both datastores.
// A failing dependency yields 503 so load balancers stop routing here.
func (s *Server) ready(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := postgres.Ping(ctx, s.db); err != nil {
		checks["postgres"] = "unreachable"
		healthy = false
	}
	if err := redis.Ping(ctx, s.redis); err != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]any{
		constants.FieldStatus: overall,
		constants.FieldChecks: checks,
	})
}
