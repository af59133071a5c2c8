package handlers

import (
	"context"

	"github.com/rogerio-castellano/market-pulse/internal/catalog"
	"github.com/rogerio-castellano/market-pulse/internal/views"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the catalog backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the catalog pages. All collaborators are injected.
type Handler struct {
	catalog *catalog.Service
	views   views.Renderer
	health  Pinger
	logger  *logrus.Logger
}

func NewHandler(svc *catalog.Service, renderer views.Renderer, health Pinger, logger *logrus.Logger) *Handler {
	return &Handler{
		catalog: svc,
		views:   renderer,
		health:  health,
		logger:  logger,
	}
}

func (h *Handler) Logger() *logrus.Logger {
	return h.logger
}
