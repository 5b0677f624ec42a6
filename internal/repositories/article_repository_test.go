package repositories

import (
	"testing"
	"time"

	"github.com/conduitlabs/conduit/backend/internal/apperrors"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Article{}, &models.Favorite{}, &models.Follow{}))
	return db
}

var testEpoch = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func seedArticle(t *testing.T, repo ArticleRepository, userID uint, slug string, createdAt time.Time) *models.Article {
	article := &models.Article{
		UserID:      userID,
		Slug:        slug,
		Title:       slug,
		Description: "desc",
		Body:        "body",
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.CreateArticle(article))
	return article
}

func pageIDs(articles []models.Article) []uint {
	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	return ids
}

func TestListPageOrderingWithTieBreak(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	t100 := testEpoch.Add(100 * time.Second)
	t90 := testEpoch.Add(90 * time.Second)

	// b and a share a timestamp; a gets the higher id and must sort first
	b := seedArticle(t, repo, 1, "b", t100)
	a := seedArticle(t, repo, 1, "a", t100)
	c := seedArticle(t, repo, 1, "c", t90)
	require.Greater(t, a.ID, b.ID)

	page, err := repo.ListPage(ArticleFilter{}, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, pageIDs(page))

	// Resume strictly after the last row of the first page
	cur := &pagination.Cursor{Position: page[1].PagePosition(), Dir: pagination.Next}
	rest, err := repo.ListPage(ArticleFilter{}, cur, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, pageIDs(rest))
}

func TestListPageConcurrentInsertNoDuplicateNoSkip(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	for i := 0; i < 4; i++ {
		seedArticle(t, repo, 1, string(rune('a'+i)), testEpoch.Add(time.Duration(10*(i+1))*time.Second))
	}

	first, err := repo.ListPage(ArticleFilter{}, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// New rows arrive on both sides of the boundary between fetches
	seedArticle(t, repo, 1, "newest", testEpoch.Add(500*time.Second))
	between := seedArticle(t, repo, 1, "between", testEpoch.Add(15*time.Second))

	cur := &pagination.Cursor{Position: first[1].PagePosition(), Dir: pagination.Next}
	second, err := repo.ListPage(ArticleFilter{}, cur, 10)
	require.NoError(t, err)

	seen := map[uint]bool{}
	for _, a := range first {
		seen[a.ID] = true
	}
	for _, a := range second {
		assert.False(t, seen[a.ID], "article %d delivered twice", a.ID)
		seen[a.ID] = true
	}
	// The row between the boundary and the tail is delivered, not skipped
	assert.Contains(t, pageIDs(second), between.ID)
}

func TestListPagePrevBound(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	a := seedArticle(t, repo, 1, "a", testEpoch.Add(300*time.Second))
	b := seedArticle(t, repo, 1, "b", testEpoch.Add(200*time.Second))
	c := seedArticle(t, repo, 1, "c", testEpoch.Add(100*time.Second))

	cur := &pagination.Cursor{Position: c.PagePosition(), Dir: pagination.Prev}
	page, err := repo.ListPage(ArticleFilter{}, cur, 10)
	require.NoError(t, err)
	// Display order preserved after the reversed fetch
	assert.Equal(t, []uint{a.ID, b.ID}, pageIDs(page))
}

func TestListPageAuthorFilters(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	a1 := seedArticle(t, repo, 1, "a1", testEpoch.Add(40*time.Second))
	a2 := seedArticle(t, repo, 2, "a2", testEpoch.Add(30*time.Second))
	a3 := seedArticle(t, repo, 3, "a3", testEpoch.Add(20*time.Second))

	byAuthor, err := repo.ListPage(ArticleFilter{AuthorID: 2}, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID}, pageIDs(byAuthor))

	bySet, err := repo.ListPage(ArticleFilter{AuthorIDs: []uint{1, 3}}, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a3.ID}, pageIDs(bySet))
}

func TestListPageFavoritedBy(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)
	favorites := NewPostgresFavoriteRepository(db)

	liked := seedArticle(t, repo, 1, "liked", testEpoch.Add(20*time.Second))
	seedArticle(t, repo, 1, "ignored", testEpoch.Add(10*time.Second))
	require.NoError(t, favorites.AddFavorite(liked.ID, 9))

	page, err := repo.ListPage(ArticleFilter{FavoritedBy: 9}, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{liked.ID}, pageIDs(page))
}

func TestListPageDeletedRowsLeaveGapsNotErrors(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	a := seedArticle(t, repo, 1, "a", testEpoch.Add(30*time.Second))
	b := seedArticle(t, repo, 1, "b", testEpoch.Add(20*time.Second))
	c := seedArticle(t, repo, 1, "c", testEpoch.Add(10*time.Second))

	cur := &pagination.Cursor{Position: a.PagePosition(), Dir: pagination.Next}
	require.NoError(t, repo.DeleteArticle(b.ID))

	page, err := repo.ListPage(ArticleFilter{}, cur, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, pageIDs(page))
}

func TestGetArticleBySlugNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	_, err := repo.GetArticleBySlug("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateArticleKeepsCreatedAt(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresArticleRepository(db)

	article := seedArticle(t, repo, 1, "stable", testEpoch.Add(10*time.Second))
	created := article.CreatedAt

	article.Title = "renamed"
	require.NoError(t, repo.UpdateArticle(article))

	reloaded, err := repo.GetArticleByID(article.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", reloaded.Title)
	assert.True(t, reloaded.CreatedAt.Equal(created))
}
