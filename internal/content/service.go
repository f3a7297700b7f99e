package content

import (
	"context"
	"fmt"

	"github.com/techdealshub/techdealshub-backend/pkg/db"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

const (
	homePostLimit    = 3
	relatedPostLimit = 3
)

// Service exposes the public blog operations.
type Service interface {
	ListPosts(ctx context.Context, page int) (*PostListing, error)
	RecentPosts(ctx context.Context) ([]PostDTO, error)
	PostDetail(ctx context.Context, slug string) (*PostDetail, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the blog browsing service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPosts(ctx context.Context, page int) (*PostListing, error) {
	result, err := s.repo.ListPublished(ctx, pagination.Params{Page: page})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}
	return &PostListing{
		Posts: toPostDTOs(result.Posts, false),
		Page:  result.Page,
	}, nil
}

func (s *service) RecentPosts(ctx context.Context) ([]PostDTO, error) {
	posts, err := s.repo.ListRecent(ctx, homePostLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing recent posts")
	}
	return toPostDTOs(posts, false), nil
}

func (s *service) PostDetail(ctx context.Context, slug string) (*PostDetail, error) {
	post, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}

	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing post views")
	}
	post.ViewsCount++

	related, err := s.repo.ListRelated(ctx, post.ID, relatedPostLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading related posts")
	}

	return &PostDetail{
		Post:    toPostDTO(post, true),
		Related: toPostDTOs(related, false),
	}, nil
}
