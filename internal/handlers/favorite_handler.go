package handlers

import (
	"net/http"

	"github.com/conduitlabs/conduit/backend/internal/middleware"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FavoriteHandler handles HTTP requests related to article favorites
type FavoriteHandler struct {
	favoriteRepository repositories.FavoriteRepository
	articleRepository  repositories.ArticleRepository
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteRepo repositories.FavoriteRepository, articleRepo repositories.ArticleRepository) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteRepository: favoriteRepo,
		articleRepository:  articleRepo,
	}
}

// RegisterFavoriteRoutes registers favorite-related routes
func (h *FavoriteHandler) RegisterFavoriteRoutes(g *echo.Group) {
	g.POST("/articles/:slug/favorite", h.FavoriteArticle)
	g.DELETE("/articles/:slug/favorite", h.UnfavoriteArticle)
	g.GET("/articles/:slug/isFavorite", h.CheckIsFavorite)
}

// FavoriteArticle favorites an article; favoriting twice is a no-op
func (h *FavoriteHandler) FavoriteArticle(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}

	if err := h.favoriteRepository.AddFavorite(article.ID, viewerID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, article)
}

// UnfavoriteArticle removes a favorite; removing a non-favorite is a no-op
func (h *FavoriteHandler) UnfavoriteArticle(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}

	if err := h.favoriteRepository.RemoveFavorite(article.ID, viewerID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "article unfavorite successfully!"})
}

// CheckIsFavorite reports whether the viewer has favorited the article
func (h *FavoriteHandler) CheckIsFavorite(c echo.Context) error {
	viewerID := middleware.ViewerID(c)

	article, err := h.articleRepository.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		return httpError(err)
	}

	isFavorite, err := h.favoriteRepository.IsFavorited(article.ID, viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"isFavorite": isFavorite})
}
