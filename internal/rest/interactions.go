package rest

import (
	"net/http"

	"github.com/dfryer1193/pressroom/api"
	"github.com/dfryer1193/pressroom/blog/domain"
	"github.com/dfryer1193/pressroom/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetLikeStatus is the legacy status probe: GET /api/like?slug=
func (a *API) GetLikeStatus(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	liked, err := a.interactions.Status(c.Request.Context(), domain.KindLiked, middleware.UserID(c), slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to fetch like status")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// HandleLike serves POST /api/like for both the status and toggle actions,
// returning the like state alongside the aggregate count.
func (a *API) HandleLike(c *gin.Context) {
	req := &api.LikeRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	var liked bool
	var err error
	status := http.StatusOK

	switch req.Action {
	case api.ActionToggle:
		if req.Title == "" {
			c.String(http.StatusBadRequest, "Bad Request")
			return
		}
		liked, err = a.interactions.Toggle(ctx, domain.KindLiked, userID, req.Slug, req.Title)
		if liked {
			status = http.StatusCreated
		}
	default:
		liked, err = a.interactions.Status(ctx, domain.KindLiked, userID, req.Slug)
	}
	if err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Str("action", req.Action).Msg("Like request failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	count, err := a.interactions.Count(ctx, domain.KindLiked, req.Slug)
	if err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to count likes")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(status, api.LikeResponse{
		Liked:     liked,
		LikeCount: count,
	})
}

// GetSaveStatus serves GET /api/save?slug=
func (a *API) GetSaveStatus(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	saved, err := a.interactions.Status(c.Request.Context(), domain.KindSaved, middleware.UserID(c), slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to fetch save status")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, api.SaveResponse{Saved: saved})
}

// ToggleSave serves POST /api/save
func (a *API) ToggleSave(c *gin.Context) {
	req := &api.SaveRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	saved, err := a.interactions.Toggle(c.Request.Context(), domain.KindSaved, middleware.UserID(c), req.Slug, req.Title)
	if err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("Save toggle failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, api.SaveResponse{Saved: saved})
}
