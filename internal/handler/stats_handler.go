package handler

import (
	"context"
	"net/http"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/HrustakV/kratky-link/internal/logger"
	"github.com/HrustakV/kratky-link/pkg/response"
	"github.com/gin-gonic/gin"
)

const recentLinksLimit = 10

type StatsService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	RecentLinks(ctx context.Context, limit int) ([]domain.Link, error)
}

type StatsHandler struct {
	service StatsService
}

func NewStatsHandler(service StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("stats query failed", "error", err)
		response.InternalServerError(c, "Failed to load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) GetRecentLinks(c *gin.Context) {
	links, err := h.service.RecentLinks(c.Request.Context(), recentLinksLimit)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("recent links query failed", "error", err)
		response.InternalServerError(c, "Failed to load recent links")
		return
	}

	if links == nil {
		links = []domain.Link{}
	}
	c.JSON(http.StatusOK, links)
}
