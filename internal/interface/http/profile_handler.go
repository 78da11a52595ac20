package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/velora-social/velora-api/internal/application"
	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/interface/middleware"
	"github.com/velora-social/velora-api/pkg/response"
	"github.com/velora-social/velora-api/pkg/validation"
)

type ProfileHandler struct {
	Svc    *app.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *app.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type bioRequest struct {
	Content  string `json:"content" binding:"required"`
	Language string `json:"language"`
}

type interestsRequest struct {
	Interests []string `json:"interests" binding:"required"`
}

type socialLinksRequest struct {
	SocialLinks map[string]string `json:"socialLinks" binding:"required"`
}

type pictureURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ownerView is the JSON shape mutations echo back. Mutations pass the
// owner-or-admin gate, so the private fields are safe to include.
func ownerView(u *entity.User) gin.H {
	return gin.H{
		"id":                      u.ID,
		"email":                   u.Email,
		"name":                    u.Name,
		"languageCode":            u.LanguageCode,
		"timezone":                u.Timezone,
		"profilePictureUrl":       u.ProfilePictureURL,
		"coverPictureUrl":         u.CoverPictureURL,
		"shortBio":                u.ShortBio,
		"longBio":                 u.LongBio,
		"interests":               u.Interests,
		"socialLinks":             u.SocialLinks,
		"appPreferences":          u.AppPreferences,
		"notificationPreferences": u.NotificationPrefs,
		"updatedAt":               u.UpdatedAt,
	}
}

// GetFull serves the complete profile, restricted to the owner or an admin.
func (h *ProfileHandler) GetFull(c *gin.Context) {
	p, err := h.Svc.GetFullProfile(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// GetPublic serves the visitor-visible projection of any profile.
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	p, err := h.Svc.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "public profile", nil)
}

func (h *ProfileHandler) UpdateShortBio(c *gin.Context) {
	var req bioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateShortBio(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Content, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "short bio updated", nil)
}

func (h *ProfileHandler) UpdateLongBio(c *gin.Context) {
	var req bioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateLongBio(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Content, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "long bio updated", nil)
}

func (h *ProfileHandler) UpdateInterests(c *gin.Context) {
	var req interestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateInterests(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Interests)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "interests updated", nil)
}

func (h *ProfileHandler) UpdateSocialLinks(c *gin.Context) {
	var req socialLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateSocialLinks(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.SocialLinks)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "social links updated", nil)
}

func (h *ProfileHandler) UpdateProfilePicture(c *gin.Context) {
	var req pictureURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfilePicture(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "profile picture updated", nil)
}

func (h *ProfileHandler) UpdateCoverPicture(c *gin.Context) {
	var req pictureURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateCoverPicture(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "cover picture updated", nil)
}

// UploadProfilePicture accepts a multipart file and stores it in object
// storage before pointing the profile at it.
func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadProfilePicture(
		c.Request.Context(),
		middleware.Principal(c),
		c.Param("id"),
		f,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ownerView(u), "profile picture uploaded", nil)
}
