package services

import (
	"context"
	"fmt"

	"github.com/conduitlabs/conduit/backend/internal/apperrors"
	"github.com/conduitlabs/conduit/backend/internal/models"
	"github.com/conduitlabs/conduit/backend/internal/pagination"
	"github.com/conduitlabs/conduit/backend/internal/repositories"
)

// ListQuery carries the recognized listing query parameters.
type ListQuery struct {
	Limit  int
	Cursor string
	Author uint
}

// ArticlePage is the paginated listing envelope.
type ArticlePage struct {
	Data []ArticleView   `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ArticleDetail is the single-article response: the article with its
// author, no viewer-favorite annotation.
type ArticleDetail struct {
	models.Article
	Author models.UserCompact `json:"author"`
}

// ListingService composes the four paginated listings and the single
// article lookup. Each listing is the same pipeline with a different base
// filter: resolve the candidate set, page through the ordering key, then
// annotate the page for the viewer.
type ListingService struct {
	articles  repositories.ArticleRepository
	users     repositories.UserRepository
	follows   repositories.FollowRepository
	annotator *Annotator
	codec     *pagination.Codec
}

// NewListingService creates a new ListingService
func NewListingService(
	articles repositories.ArticleRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	annotator *Annotator,
	codec *pagination.Codec,
) *ListingService {
	return &ListingService{
		articles:  articles,
		users:     users,
		follows:   follows,
		annotator: annotator,
		codec:     codec,
	}
}

// ListArticles pages through all articles, optionally filtered to a
// single author. Anonymous viewers are allowed.
func (s *ListingService) ListArticles(ctx context.Context, q ListQuery, viewerID uint) (*ArticlePage, error) {
	scope := "articles"
	if q.Author != 0 {
		scope = fmt.Sprintf("articles:author:%d", q.Author)
	}
	return s.page(ctx, scope, repositories.ArticleFilter{AuthorID: q.Author}, q, viewerID)
}

// Feed pages through articles authored by users the viewer follows.
func (s *ListingService) Feed(ctx context.Context, q ListQuery, viewerID uint) (*ArticlePage, error) {
	if viewerID == 0 {
		return nil, fmt.Errorf("feed: %w", apperrors.ErrUnauthenticated)
	}

	authorIDs, err := s.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return &ArticlePage{
			Data: []ArticleView{},
			Meta: pagination.Meta{PerPage: pagination.ClampLimit(q.Limit)},
		}, nil
	}

	scope := fmt.Sprintf("feed:%d", viewerID)
	return s.page(ctx, scope, repositories.ArticleFilter{AuthorIDs: authorIDs}, q, viewerID)
}

// FavoritesFeed pages through the articles the viewer has favorited.
func (s *ListingService) FavoritesFeed(ctx context.Context, q ListQuery, viewerID uint) (*ArticlePage, error) {
	if viewerID == 0 {
		return nil, fmt.Errorf("favorites feed: %w", apperrors.ErrUnauthenticated)
	}
	scope := fmt.Sprintf("favorites:%d", viewerID)
	return s.page(ctx, scope, repositories.ArticleFilter{FavoritedBy: viewerID}, q, viewerID)
}

// GetBySlug retrieves a single article with its author.
func (s *ListingService) GetBySlug(ctx context.Context, slugName string) (*ArticleDetail, error) {
	article, err := s.articles.GetArticleBySlug(slugName)
	if err != nil {
		return nil, err
	}
	author, err := s.users.GetUserByID(article.UserID)
	if err != nil {
		return nil, err
	}
	return &ArticleDetail{Article: *article, Author: author.ToCompact()}, nil
}

func (s *ListingService) page(ctx context.Context, scope string, filter repositories.ArticleFilter, q ListQuery, viewerID uint) (*ArticlePage, error) {
	items, meta, err := pagination.Paginate(s.codec, scope, q.Cursor, q.Limit,
		func(cur *pagination.Cursor, limit int) ([]models.Article, error) {
			return s.articles.ListPage(filter, cur, limit)
		})
	if err != nil {
		return nil, err
	}

	views, err := s.annotator.Annotate(ctx, items, viewerID)
	if err != nil {
		return nil, err
	}
	return &ArticlePage{Data: views, Meta: meta}, nil
}
