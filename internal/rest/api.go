package rest

import (
	"github.com/dfryer1193/pressroom/blog/application"
	"github.com/dfryer1193/pressroom/internal/auth"
	"github.com/dfryer1193/pressroom/internal/middleware"
	"github.com/gin-gonic/gin"
)

// API wires the HTTP surface to the application services.
type API struct {
	posts        *application.PostService
	interactions *application.InteractionService
	tokens       *auth.TokenService
}

func NewAPI(posts *application.PostService, interactions *application.InteractionService, tokens *auth.TokenService) *API {
	return &API{
		posts:        posts,
		interactions: interactions,
		tokens:       tokens,
	}
}

func (a *API) Register(router *gin.Engine) {
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/update", a.UpdatePost)
		apiGroup.POST("/delete", a.DeletePost)
		apiGroup.POST("/write-a-blog", a.WriteBlog)
		apiGroup.POST("/register-author", a.RegisterAuthor)
	}

	authed := apiGroup.Group("")
	authed.Use(middleware.RequireUser(a.tokens))
	{
		authed.GET("/like", a.GetLikeStatus)
		authed.POST("/like", a.HandleLike)
		authed.GET("/save", a.GetSaveStatus)
		authed.POST("/save", a.ToggleSave)
	}
}
