package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/HrustakV/kratky-link/internal/logger"
	"github.com/HrustakV/kratky-link/pkg/detector"
	"github.com/HrustakV/kratky-link/pkg/response"
	"github.com/HrustakV/kratky-link/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ShortenerService interface {
	Shorten(ctx context.Context, req *domain.CreateLinkRequest) (*domain.Link, error)
	Resolve(ctx context.Context, code string, visit domain.Visit) (*domain.Link, error)
}

type ShortenerHandler struct {
	service ShortenerService
	baseURL string
}

func NewShortenerHandler(service ShortenerService, baseURL string) *ShortenerHandler {
	return &ShortenerHandler{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (h *ShortenerHandler) Shorten(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	req.CreatorIP = clientIP(c)

	link, err := h.service.Shorten(c.Request.Context(), &req)
	if err != nil {
		h.shortenError(c, err)
		return
	}

	response.Created(c, "Short link created", gin.H{
		"id":           link.ID,
		"short_code":   link.ShortCode,
		"custom_code":  link.CustomCode,
		"short_url":    h.baseURL + "/" + displayCode(link),
		"original_url": link.OriginalURL,
		"expires_at":   link.ExpiresAt,
	})
}

// Redirect answers 404 for every resolution failure; visitors must not be
// able to tell a missing code from an expired or deactivated one.
func (h *ShortenerHandler) Redirect(c *gin.Context) {
	code := c.Param("code")

	visit := domain.Visit{
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		IPAddress: clientIP(c),
	}

	link, err := h.service.Resolve(c.Request.Context(), code, visit)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.FromContext(c.Request.Context()).Error("resolve failed",
				"code", code, "error", err)
		}
		response.NotFound(c, "Short link not found")
		return
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

func (h *ShortenerHandler) shortenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL),
		errors.Is(err, domain.ErrLoopURL),
		errors.Is(err, domain.ErrInvalidAlias):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrAliasTaken):
		response.Conflict(c, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error("shorten failed", "error", err)
		response.InternalServerError(c, "Failed to create short link")
	}
}

func displayCode(link *domain.Link) string {
	if link.CustomCode != nil {
		return *link.CustomCode
	}
	return link.ShortCode
}

func clientIP(c *gin.Context) string {
	return detector.GetClientIP(
		c.Request.RemoteAddr,
		c.GetHeader("X-Forwarded-For"),
		c.GetHeader("X-Real-IP"),
	)
}
