package services

import (
	"context"

	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
)

// ArticleView is an article with viewer-relative fields attached. It is a
// separate response shape: the stored Article is never mutated to carry
// derived data.
type ArticleView struct {
	models.Article
	Author         models.UserCompact `json:"author"`
	IsFavorited    bool               `json:"is_favorited_by_auth_user"`
	FavoritesCount int64              `json:"favorites_count"`
	CommentsCount  int64              `json:"comments_count"`
}

// Annotator attaches authors, favorite state, and counts to a page of
// articles using one batched query per concern.
type Annotator struct {
	users     repositories.UserRepository
	favorites repositories.FavoriteRepository
	comments  repositories.CommentRepository
}

// NewAnnotator creates a new Annotator
func NewAnnotator(users repositories.UserRepository, favorites repositories.FavoriteRepository, comments repositories.CommentRepository) *Annotator {
	return &Annotator{users: users, favorites: favorites, comments: comments}
}

// Annotate builds views for a page of articles. viewerID 0 means
// anonymous: every favorite flag is false and the favorite-edge set is
// not queried at all. Counts are computed regardless of viewer.
func (a *Annotator) Annotate(ctx context.Context, articles []models.Article, viewerID uint) ([]ArticleView, error) {
	views := make([]ArticleView, 0, len(articles))
	if len(articles) == 0 {
		return views, nil
	}

	articleIDs := make([]uint, len(articles))
	authorIDSet := make(map[uint]bool, len(articles))
	var authorIDs []uint
	for i, art := range articles {
		articleIDs[i] = art.ID
		if !authorIDSet[art.UserID] {
			authorIDSet[art.UserID] = true
			authorIDs = append(authorIDs, art.UserID)
		}
	}

	authors, err := a.users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	favoriteCounts, err := a.favorites.CountsByArticleIDs(articleIDs)
	if err != nil {
		return nil, err
	}

	favorited := map[uint]bool{}
	if viewerID != 0 {
		favorited, err = a.favorites.FavoritedSet(viewerID, articleIDs)
		if err != nil {
			return nil, err
		}
	}

	commentCounts, err := a.comments.CountsByArticleIDs(ctx, articleIDs)
	if err != nil {
		return nil, err
	}

	for _, art := range articles {
		author := authors[art.UserID]
		views = append(views, ArticleView{
			Article:        art,
			Author:         author.ToCompact(),
			IsFavorited:    favorited[art.ID],
			FavoritesCount: favoriteCounts[art.ID],
			CommentsCount:  commentCounts[art.ID],
		})
	}
	return views, nil
}
