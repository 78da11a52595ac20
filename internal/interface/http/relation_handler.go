package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/interface/middleware"
	"github.com/velora-social/velora-api/pkg/response"
)

type RelationHandler struct {
	Svc    *app.RelationService
	Logger *logrus.Logger
}

func NewRelationHandler(svc *app.RelationService, logger *logrus.Logger) *RelationHandler {
	return &RelationHandler{Svc: svc, Logger: logger}
}

// pageParams clamps pagination query params: page is at least 1,
// itemsPerPage saturates into 1..100 and defaults to 10 when absent.
func pageParams(c *gin.Context) (page, itemsPerPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	itemsPerPage, _ = strconv.Atoi(c.DefaultQuery("itemsPerPage", "10"))
	if itemsPerPage < 1 {
		itemsPerPage = 1
	} else if itemsPerPage > 100 {
		itemsPerPage = 100
	}
	return page, itemsPerPage
}

func (h *RelationHandler) Follow(c *gin.Context) {
	target, err := h.Svc.Follow(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":   target.ID,
		"name": target.Name,
	}, "now following", nil)
}

// Unfollow removes targetId from the :id user's following list. Only the
// owner of that list may mutate it.
func (h *RelationHandler) Unfollow(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil || principal.ID != c.Param("id") {
		writeError(c, app.ErrAccessDenied)
		return
	}
	target, err := h.Svc.Unfollow(c.Request.Context(), principal, c.Param("targetId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":   target.ID,
		"name": target.Name,
	}, "unfollowed", nil)
}

func (h *RelationHandler) Followers(c *gin.Context) {
	page, ipp := pageParams(c)
	res, err := h.Svc.Followers(c.Request.Context(), c.Param("id"), page, ipp)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "followers", nil)
}

func (h *RelationHandler) Following(c *gin.Context) {
	page, ipp := pageParams(c)
	res, err := h.Svc.Following(c.Request.Context(), c.Param("id"), page, ipp)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "following", nil)
}
