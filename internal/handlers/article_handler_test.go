package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/conduitlabs/conduit/backend/internal/apperrors"
	"github.com/conduitlabs/conduit/backend/internal/middleware"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/pagination"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
	"github.com/conduitlabs/conduit/backend/internal/services"
	"github.com/conduitlabs/conduit/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// noCommentRepo reports zero comments everywhere; handler tests run
// without a Mongo cluster.
type noCommentRepo struct{}

func (noCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error { return nil }

func (noCommentRepo) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	return nil, apperrors.ErrNotFound
}

func (noCommentRepo) GetCommentsByArticleID(ctx context.Context, articleID uint, limit int64) ([]models.Comment, error) {
	return nil, nil
}

func (noCommentRepo) DeleteComment(ctx context.Context, id string) error { return nil }

func (noCommentRepo) CountsByArticleIDs(ctx context.Context, articleIDs []uint) (map[uint]int64, error) {
	return map[uint]int64{}, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Article{}, &models.Favorite{}, &models.Follow{}))

	users := repositories.NewPostgresUserRepository(db)
	articles := repositories.NewPostgresArticleRepository(db)
	favorites := repositories.NewPostgresFavoriteRepository(db)
	follows := repositories.NewPostgresFollowRepository(db)

	codec := pagination.NewCodec("handler-test-secret")
	annotator := services.NewAnnotator(users, favorites, noCommentRepo{})
	listing := services.NewListingService(articles, users, follows, annotator, codec)

	e := echo.New()
	e.Validator = validators.NewValidator()
	h := NewArticleHandler(listing, articles)

	public := e.Group("/api", middleware.OptionalJWTAuthMiddleware("handler-test-jwt"))
	h.RegisterPublicArticleRoutes(public)
	protected := e.Group("/api", middleware.JWTAuthMiddleware("handler-test-jwt"))
	h.RegisterArticleRoutes(protected)
	return e, db
}

func seedListing(t *testing.T, db *gorm.DB, n int) {
	user := &models.User{Username: "writer", Email: "writer@example.com"}
	require.NoError(t, db.Create(user).Error)
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		article := &models.Article{
			UserID:    user.ID,
			Slug:      "post-" + string(rune('a'+i)),
			Title:     "post",
			Body:      "body",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(article).Error)
	}
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListArticlesEndpoint(t *testing.T) {
	e, db := newTestServer(t)
	seedListing(t, db, 3)

	rec := doRequest(e, "/api/articles?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data []services.ArticleView `json:"data"`
		Meta pagination.Meta        `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.True(t, page.Meta.HasMore)
	require.NotNil(t, page.Meta.NextCursor)
	assert.Equal(t, "writer", page.Data[0].Author.Username)
	assert.False(t, page.Data[0].IsFavorited)

	rec = doRequest(e, "/api/articles?limit=2&cursor="+*page.Meta.NextCursor)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.False(t, page.Meta.HasMore)
}

func TestListArticlesRejectsBadQueryParams(t *testing.T) {
	e, db := newTestServer(t)
	seedListing(t, db, 1)

	assert.Equal(t, http.StatusUnprocessableEntity, doRequest(e, "/api/articles?limit=abc").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doRequest(e, "/api/articles?author=bob").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doRequest(e, "/api/articles?cursor=not-a-cursor").Code)
}

func TestListArticlesClampsLimit(t *testing.T) {
	e, db := newTestServer(t)
	seedListing(t, db, 3)

	rec := doRequest(e, "/api/articles?limit=999")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, pagination.MaxPerPage, page.Meta.PerPage)
}

func TestFeedEndpointRequiresToken(t *testing.T) {
	e, _ := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "/api/articles/feed").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "/api/articles/favoriteFeed").Code)
}

func TestShowArticleEndpoint(t *testing.T) {
	e, db := newTestServer(t)
	seedListing(t, db, 1)

	rec := doRequest(e, "/api/articles/post-a")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail services.ArticleDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "post-a", detail.Slug)
	assert.Equal(t, "writer", detail.Author.Username)

	assert.Equal(t, http.StatusNotFound, doRequest(e, "/api/articles/missing").Code)
}
