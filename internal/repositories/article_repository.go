package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/conduitlabs/conduit/backend/internal/apperrors"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/pagination"
	"gorm.io/gorm"
)

// ArticleFilter narrows a listing to one of the four query shapes. Zero
// values mean "no filter"; AuthorIDs non-nil restricts to the given set.
type ArticleFilter struct {
	AuthorID    uint
	AuthorIDs   []uint
	FavoritedBy uint
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	CreateArticle(article *models.Article) error
	GetArticleByID(id uint) (*models.Article, error)
	GetArticleBySlug(slug string) (*models.Article, error)
	SlugExists(slug string) (bool, error)
	UpdateArticle(article *models.Article) error
	DeleteArticle(id uint) error
	ListPage(filter ArticleFilter, cur *pagination.Cursor, limit int) ([]models.Article, error)
}

// PostgresArticleRepository implements ArticleRepository for PostgreSQL
type PostgresArticleRepository struct {
	db *gorm.DB
}

// NewPostgresArticleRepository creates a new PostgresArticleRepository
func NewPostgresArticleRepository(db *gorm.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{db: db}
}

// CreateArticle creates a new article. The creation timestamp is set here
// and truncated to microseconds so pagination cursors round-trip exactly.
func (r *PostgresArticleRepository) CreateArticle(article *models.Article) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	} else {
		article.CreatedAt = article.CreatedAt.UTC().Truncate(time.Microsecond)
	}
	article.UpdatedAt = now
	return r.db.Create(article).Error
}

// GetArticleByID retrieves an article by ID
func (r *PostgresArticleRepository) GetArticleByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &article, nil
}

// GetArticleBySlug retrieves an article by its slug
func (r *PostgresArticleRepository) GetArticleBySlug(slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %q: %w", slug, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &article, nil
}

// SlugExists reports whether any article already uses the slug
func (r *PostgresArticleRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Article{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateArticle updates an existing article. CreatedAt is never touched.
func (r *PostgresArticleRepository) UpdateArticle(article *models.Article) error {
	article.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	return r.db.Model(article).Select("slug", "title", "description", "body", "updated_at").Updates(article).Error
}

// DeleteArticle deletes an article and its favorite edges
func (r *PostgresArticleRepository) DeleteArticle(id uint) error {
	res := r.db.Delete(&models.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article %d: %w", id, apperrors.ErrNotFound)
	}
	return r.db.Where("article_id = ?", id).Delete(&models.Favorite{}).Error
}

// ListPage fetches up to limit articles in display order (created_at
// DESC, id DESC), bounded by the cursor with a strict inequality on the
// (created_at, id) pair. Rows inserted concurrently therefore sort
// entirely before or after the boundary and are never duplicated or
// skipped between pages. Prev cursors fetch with the reversed bound and
// the rows are flipped back into display order before returning.
func (r *PostgresArticleRepository) ListPage(filter ArticleFilter, cur *pagination.Cursor, limit int) ([]models.Article, error) {
	q := r.db.Model(&models.Article{})

	if filter.AuthorID != 0 {
		q = q.Where("user_id = ?", filter.AuthorID)
	}
	if filter.AuthorIDs != nil {
		q = q.Where("user_id IN ?", filter.AuthorIDs)
	}
	if filter.FavoritedBy != 0 {
		q = q.Where("id IN (?)",
			r.db.Model(&models.Favorite{}).Select("article_id").Where("user_id = ?", filter.FavoritedBy),
		)
	}

	backwards := cur != nil && cur.Dir == pagination.Prev
	if cur != nil {
		bound := time.UnixMicro(cur.CreatedAt).UTC()
		if backwards {
			q = q.Where("created_at > ? OR (created_at = ? AND id > ?)", bound, bound, cur.ID)
		} else {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", bound, bound, cur.ID)
		}
	}
	if backwards {
		q = q.Order("created_at ASC, id ASC")
	} else {
		q = q.Order("created_at DESC, id DESC")
	}

	var articles []models.Article
	if err := q.Limit(limit).Find(&articles).Error; err != nil {
		return nil, err
	}
	if backwards {
		for i, j := 0, len(articles)-1; i < j; i, j = i+1, j-1 {
			articles[i], articles[j] = articles[j], articles[i]
		}
	}
	return articles, nil
}
