package content

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Author{}, &models.BlogPost{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return conn
}

type testPostOpts struct {
	title     string
	published bool
	author    *models.Author
}

var postSeq atomic.Int64

func mustCreateTestPost(t *testing.T, tx *gorm.DB, opts testPostOpts) *models.BlogPost {
	t.Helper()
	if opts.title == "" {
		opts.title = fmt.Sprintf("Post %d", postSeq.Add(1))
	}
	post := &models.BlogPost{
		Title:       opts.title,
		Content:     "Long-form buying advice.",
		IsPublished: opts.published,
	}
	if opts.published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if opts.author != nil {
		post.AuthorID = &opts.author.ID
	}
	if err := tx.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestListPostsSkipsDrafts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	mustCreateTestPost(t, repo.db, testPostOpts{title: "Published", published: true})
	mustCreateTestPost(t, repo.db, testPostOpts{title: "Draft"})

	listing, err := svc.ListPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listing.Posts, 1)
	assert.Equal(t, "Published", listing.Posts[0].Title)
	assert.EqualValues(t, 1, listing.Page.TotalItems)
}

func TestListPostsPageSize(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 13; i++ {
		mustCreateTestPost(t, repo.db, testPostOpts{published: true})
	}

	listing, err := svc.ListPosts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, listing.Posts, pagination.DefaultPostPageSize)
	assert.True(t, listing.Page.HasNext)

	listing, err = svc.ListPosts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, listing.Posts, 3)
	assert.True(t, listing.Page.HasPrev)
}

func TestListPostsOrdersByPublicationDate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// Written first but published only now; a long-lived draft.
	draftFirst := mustCreateTestPost(t, repo.db, testPostOpts{title: "Written First Published Last", published: true})
	// Written later but already live for a week.
	liveForAWeek := mustCreateTestPost(t, repo.db, testPostOpts{title: "Written Last Published First", published: true})

	now := time.Now().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	require.NoError(t, repo.db.Model(draftFirst).UpdateColumns(map[string]any{
		"created_at":   weekAgo,
		"published_at": now,
	}).Error)
	require.NoError(t, repo.db.Model(liveForAWeek).UpdateColumns(map[string]any{
		"created_at":   now,
		"published_at": weekAgo,
	}).Error)

	listing, err := svc.ListPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listing.Posts, 2)
	assert.Equal(t, "Written First Published Last", listing.Posts[0].Title)
	assert.Equal(t, "Written Last Published First", listing.Posts[1].Title)

	recent, err := svc.RecentPosts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, "Written First Published Last", recent[0].Title)

	related, err := repo.ListRelated(ctx, uuid.Nil, 3)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, "Written First Published Last", related[0].Title)
}

func TestPostDetailCountsViewAndFallsBackAuthor(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	author := &models.Author{Name: "Dana Reviewer", Email: "dana@techdealshub.example"}
	require.NoError(t, repo.db.Create(author).Error)

	withAuthor := mustCreateTestPost(t, repo.db, testPostOpts{title: "Top Laptops 2026", published: true, author: author})
	orphan := mustCreateTestPost(t, repo.db, testPostOpts{title: "Orphaned Guide", published: true})
	for i := 0; i < 4; i++ {
		mustCreateTestPost(t, repo.db, testPostOpts{published: true})
	}

	detail, err := svc.PostDetail(ctx, withAuthor.Slug)
	require.NoError(t, err)
	assert.Equal(t, "top-laptops-2026", detail.Post.Slug)
	assert.Equal(t, "Dana Reviewer", detail.Post.AuthorName)
	assert.Equal(t, 1, detail.Post.ViewsCount)
	assert.NotEmpty(t, detail.Post.Content)
	assert.Len(t, detail.Related, relatedPostLimit)
	for _, p := range detail.Related {
		assert.NotEqual(t, detail.Post.ID, p.ID)
		assert.Empty(t, p.Content)
	}

	detail, err = svc.PostDetail(ctx, orphan.Slug)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorFallbackName, detail.Post.AuthorName)
}

func TestPostDetailHidesDrafts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	draft := mustCreateTestPost(t, repo.db, testPostOpts{title: "Unreleased"})

	_, err := svc.PostDetail(ctx, draft.Slug)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestGetOrCreateAuthorIsIdempotent(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateAuthor(ctx, "Sam Writer", "sam@techdealshub.example")
	require.NoError(t, err)

	second, err := repo.GetOrCreateAuthor(ctx, "Sam Writer", "sam@techdealshub.example")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, repo.db.Model(&models.Author{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
