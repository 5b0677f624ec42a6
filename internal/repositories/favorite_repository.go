package repositories

import (
	"github.com/conduitlabs/conduit/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines the interface for favorite-edge operations
type FavoriteRepository interface {
	AddFavorite(articleID, userID uint) error
	RemoveFavorite(articleID, userID uint) error
	IsFavorited(articleID, userID uint) (bool, error)
	CountByArticleID(articleID uint) (int64, error)
	FavoritedSet(userID uint, articleIDs []uint) (map[uint]bool, error)
	CountsByArticleIDs(articleIDs []uint) (map[uint]int64, error)
}

// PostgresFavoriteRepository implements FavoriteRepository for PostgreSQL
type PostgresFavoriteRepository struct {
	db *gorm.DB
}

// NewPostgresFavoriteRepository creates a new PostgresFavoriteRepository
func NewPostgresFavoriteRepository(db *gorm.DB) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db}
}

// AddFavorite attaches a favorite edge. Favoriting an already-favorited
// article is a no-op; the unique (article, user) pair stays single.
func (r *PostgresFavoriteRepository) AddFavorite(articleID, userID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{ArticleID: articleID, UserID: userID}).Error
}

// RemoveFavorite detaches a favorite edge. Removing a non-favorite is a no-op.
func (r *PostgresFavoriteRepository) RemoveFavorite(articleID, userID uint) error {
	return r.db.Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&models.Favorite{}).Error
}

// IsFavorited checks whether a user has favorited an article
func (r *PostgresFavoriteRepository) IsFavorited(articleID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Favorite{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByArticleID retrieves the favorite count of a single article
func (r *PostgresFavoriteRepository) CountByArticleID(articleID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

// FavoritedSet returns which of the given articles the user has
// favorited, in a single query.
func (r *PostgresFavoriteRepository) FavoritedSet(userID uint, articleIDs []uint) (map[uint]bool, error) {
	favorited := make(map[uint]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return favorited, nil
	}
	var ids []uint
	if err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}
	return favorited, nil
}

// CountsByArticleIDs returns favorite counts for a batch of articles in a
// single grouped query. Articles with no favorites are absent from the map.
func (r *PostgresFavoriteRepository) CountsByArticleIDs(articleIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ArticleID uint
		Total     int64
	}
	if err := r.db.Model(&models.Favorite{}).
		Select("article_id, COUNT(*) AS total").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ArticleID] = row.Total
	}
	return counts, nil
}
