package handlers

import (
	"net/http"
	"strconv"

	"github.com/conduitlabs/conduit/backend/internal/middleware"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const defaultCommentLimit = 20

// CommentHandler handles HTTP requests related to article comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	articleRepository repositories.ArticleRepository
	userRepository    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, articleRepo repositories.ArticleRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		articleRepository: articleRepo,
		userRepository:    userRepo,
	}
}

// RegisterPublicCommentRoutes registers the anonymous-capable comment routes
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/articles/:slug/comments", h.ListComments)
}

// RegisterCommentRoutes registers the viewer-required comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/articles/:slug/comments", h.CreateComment)
	g.DELETE("/articles/:slug/comments/:id", h.DeleteComment)
}

// CommentView is a comment with its author attached
type CommentView struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// ListComments lists an article's comments, newest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}

	limit := int64(defaultCommentLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "limit must be an integer")
		}
		if parsed > 0 {
			limit = parsed
		}
	}

	comments, err := h.commentRepository.GetCommentsByArticleID(c.Request().Context(), article.ID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// One batched author lookup for the whole page
	authorIDs := make([]uint, 0, len(comments))
	seen := make(map[uint]bool, len(comments))
	for _, cm := range comments {
		if !seen[cm.UserID] {
			seen[cm.UserID] = true
			authorIDs = append(authorIDs, cm.UserID)
		}
	}
	authors, err := h.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]CommentView, len(comments))
	for i, cm := range comments {
		author := authors[cm.UserID]
		views[i] = CommentView{Comment: cm, Author: author.ToCompact()}
	}
	return c.JSON(http.StatusOK, views)
}

// CreateComment adds a comment to an article
func (h *CommentHandler) CreateComment(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		ArticleID: article.ID,
		UserID:    viewerID,
		Body:      req.Body,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	author, err := h.userRepository.GetUserByID(viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comment": CommentView{Comment: *comment, Author: author.ToCompact()}})
}

// DeleteComment deletes the viewer's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if comment.UserID != viewerID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment.")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully!"})
}
