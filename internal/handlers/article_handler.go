package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/conduitlabs/conduit/backend/internal/middleware"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
	"github.com/conduitlabs/conduit/backend/internal/services"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
)

// ArticleHandler handles HTTP requests related to articles
type ArticleHandler struct {
	listingService    *services.ListingService
	articleRepository repositories.ArticleRepository
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(listingService *services.ListingService, articleRepo repositories.ArticleRepository) *ArticleHandler {
	return &ArticleHandler{
		listingService:    listingService,
		articleRepository: articleRepo,
	}
}

// RegisterPublicArticleRoutes registers the anonymous-capable article routes
func (h *ArticleHandler) RegisterPublicArticleRoutes(g *echo.Group) {
	g.GET("/articles", h.ListArticles)
	g.GET("/articles/:slug", h.ShowArticle)
}

// RegisterArticleRoutes registers the viewer-required article routes
func (h *ArticleHandler) RegisterArticleRoutes(g *echo.Group) {
	g.GET("/articles/feed", h.Feed)
	g.GET("/articles/favoriteFeed", h.FavoritesFeed)
	g.POST("/articles", h.CreateArticle)
	g.PUT("/articles/:slug", h.UpdateArticle)
	g.DELETE("/articles/:slug", h.DeleteArticle)
}

// bindListQuery parses limit/cursor (and optionally author) query params.
// Non-numeric values are rejected; out-of-range limits are left for the
// pagination engine to clamp.
func bindListQuery(c echo.Context, allowAuthor bool) (services.ListQuery, error) {
	var q services.ListQuery

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, echo.NewHTTPError(http.StatusUnprocessableEntity, "limit must be an integer")
		}
		q.Limit = limit
	}
	if allowAuthor {
		if raw := c.QueryParam("author"); raw != "" {
			author, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return q, echo.NewHTTPError(http.StatusUnprocessableEntity, "author must be a user id")
			}
			q.Author = uint(author)
		}
	}
	q.Cursor = c.QueryParam("cursor")
	return q, nil
}

// ListArticles returns a page of all articles, optionally filtered by author
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	q, err := bindListQuery(c, true)
	if err != nil {
		return err
	}

	page, err := h.listingService.ListArticles(c.Request().Context(), q, middleware.ViewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// Feed returns a page of articles authored by followed users
func (h *ArticleHandler) Feed(c echo.Context) error {
	q, err := bindListQuery(c, false)
	if err != nil {
		return err
	}

	page, err := h.listingService.Feed(c.Request().Context(), q, middleware.ViewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// FavoritesFeed returns a page of articles favorited by the viewer
func (h *ArticleHandler) FavoritesFeed(c echo.Context) error {
	q, err := bindListQuery(c, false)
	if err != nil {
		return err
	}

	page, err := h.listingService.FavoritesFeed(c.Request().Context(), q, middleware.ViewerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// ShowArticle retrieves a single article by slug
func (h *ArticleHandler) ShowArticle(c echo.Context) error {
	detail, err := h.listingService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateArticle creates a new article for the authenticated user
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	var req models.CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	articleSlug, err := h.generateUniqueSlug(req.Title)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	article := &models.Article{
		UserID:      viewerID,
		Slug:        articleSlug,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
	}
	if err := h.articleRepository.CreateArticle(article); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, article)
}

// UpdateArticle updates an article owned by the authenticated user
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	var req models.UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Title == "" && req.Description == "" && req.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No data provided or all fields are empty")
	}

	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	if article.UserID != viewerID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this article.")
	}

	if req.Title != "" {
		article.Title = req.Title
		newSlug, err := h.generateUniqueSlug(req.Title)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		article.Slug = newSlug
	}
	if req.Description != "" {
		article.Description = req.Description
	}
	if req.Body != "" {
		article.Body = req.Body
	}

	if err := h.articleRepository.UpdateArticle(article); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, article)
}

// DeleteArticle deletes an article owned by the authenticated user
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	if article.UserID != viewerID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this article.")
	}

	if err := h.articleRepository.DeleteArticle(article.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Article deleted successfully."})
}

// generateUniqueSlug slugifies the title and appends a random suffix,
// retrying until the slug is unused.
func (h *ArticleHandler) generateUniqueSlug(title string) (string, error) {
	base := slug.Make(title)
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		candidate := fmt.Sprintf("%s-%s", base, suffix)
		exists, err := h.articleRepository.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}
