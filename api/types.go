// Package api holds the request and response shapes of the HTTP surface.
package api

const (
	ActionStatus = "status"
	ActionToggle = "toggle"
)

type LikeRequest struct {
	Slug   string `json:"slug" binding:"required"`
	Title  string `json:"title"`
	Action string `json:"action" binding:"required,oneof=status toggle"`
}

type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type SaveRequest struct {
	Slug  string `json:"slug" binding:"required"`
	Title string `json:"title" binding:"required"`
}

type SaveResponse struct {
	Saved bool `json:"saved"`
}

type UpdatePostRequest struct {
	Slug     string   `json:"slug" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Tags     []string `json:"tags"`
	AuthorID string   `json:"authorId" binding:"required"`
}

type UpdatePostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	NewSlug string `json:"newSlug,omitempty"`
}

type DeletePostRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// StatusResponse is the generic {success, message} envelope.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
