package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/pressroom/api"
	"github.com/dfryer1193/pressroom/blog/application"
	"github.com/dfryer1193/pressroom/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UpdatePost serves POST /api/update
func (a *API) UpdatePost(c *gin.Context) {
	req := &api.UpdatePostRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.StatusResponse{Success: false, Message: "Missing required fields"})
		return
	}

	newSlug, err := a.posts.Update(c.Request.Context(), application.UpdatePostRequest{
		OldSlug:  req.Slug,
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
		Tags:     req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			c.JSON(http.StatusNotFound, api.StatusResponse{Success: false, Message: "Post not found"})
		case errors.Is(err, domain.ErrInvalidTitle):
			c.JSON(http.StatusBadRequest, api.StatusResponse{Success: false, Message: "Title must contain at least one letter or digit"})
		default:
			log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to update post")
			c.JSON(http.StatusInternalServerError, api.StatusResponse{Success: false, Message: "Failed to update post"})
		}
		return
	}

	c.JSON(http.StatusOK, api.UpdatePostResponse{
		Success: true,
		Message: "Post updated successfully",
		NewSlug: newSlug,
	})
}

// DeletePost serves POST /api/delete
func (a *API) DeletePost(c *gin.Context) {
	req := &api.DeletePostRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, api.StatusResponse{Success: false, Message: "Post slug is required"})
		return
	}

	if err := a.posts.Delete(c.Request.Context(), req.Slug); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, api.StatusResponse{Success: false, Message: "Post not found"})
			return
		}
		log.Error().Err(err).Str("slug", req.Slug).Msg("Failed to delete post")
		c.JSON(http.StatusInternalServerError, api.StatusResponse{Success: false, Message: "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, api.StatusResponse{Success: true, Message: "Post deleted successfully"})
}

// WriteBlog serves the form-encoded POST /api/write-a-blog and redirects to
// the new post on success.
func (a *API) WriteBlog(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	email := c.PostForm("email")
	name := c.PostForm("name")
	tags := c.PostFormArray("tags")

	if title == "" || content == "" || email == "" || name == "" {
		c.String(http.StatusBadRequest, "Missing required fields")
		return
	}

	slug, err := a.posts.Create(c.Request.Context(), application.CreatePostRequest{
		Title:       title,
		Content:     content,
		AuthorEmail: email,
		Tags:        tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorNotFound):
			c.String(http.StatusNotFound, "Author not found")
		case errors.Is(err, domain.ErrInvalidTitle):
			c.String(http.StatusBadRequest, "Missing required fields")
		default:
			log.Error().Err(err).Str("title", title).Msg("Failed to create post")
			c.String(http.StatusInternalServerError, "Failed to create post")
		}
		return
	}

	c.Redirect(http.StatusSeeOther, "/blogs/"+slug)
}

// RegisterAuthor serves the form-encoded POST /api/register-author.
// Failures redirect to the fallback route rather than rendering error detail.
func (a *API) RegisterAuthor(c *gin.Context) {
	req := application.RegisterAuthorRequest{
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
		Title: c.PostForm("title"),
		Bio:   c.PostForm("bio"),
		Slug:  c.PostForm("slug"),
	}

	if req.Name == "" || req.Email == "" || req.Title == "" || req.Bio == "" || req.Slug == "" {
		c.String(http.StatusBadRequest, "Missing required fields")
		return
	}

	if err := a.posts.RegisterAuthor(c.Request.Context(), req); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register author")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.Redirect(http.StatusSeeOther, "/user/write-a-blog")
}
