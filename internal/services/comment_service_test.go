package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

type pageFixture struct {
	comments  *CommentService
	reactions *ReactionService
	drafts    *DraftService
}

// newPageFixture publishes a page owned by session "owner".
func newPageFixture(t *testing.T) pageFixture {
	t.Helper()
	db := newServiceDB(t)
	drafts := &DraftService{Store: repo.NewSQLStore(db), Clock: newFakeClock(), Log: nopLog}
	ctx := context.Background()
	_, err := drafts.Save(ctx, "owner", domain.ExitPageDraft{Mood: domain.MoodFunny, Message: "bye"})
	require.NoError(t, err)
	_, err = drafts.Publish(ctx, "owner")
	require.NoError(t, err)

	return pageFixture{
		comments:  &CommentService{DB: db, Pages: drafts},
		reactions: &ReactionService{DB: db, Pages: drafts},
		drafts:    drafts,
	}
}

func TestComment_CreateValidation(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	_, err := f.comments.Create(ctx, "v1", "owner", "Ana", "  <> ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = f.comments.Create(ctx, "v1", "owner", "Ana", strings.Repeat("x", MaxFieldRunes+1))
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = f.comments.Create(ctx, "v1", "ghost", "Ana", "hello")
	assert.ErrorIs(t, err, ErrPageNotFound)

	c, err := f.comments.Create(ctx, "v1", "owner", "  ", "<i>miss you</i>")
	require.NoError(t, err)
	assert.Equal(t, AnonymousAuthor, c.Author)
	assert.Equal(t, "imiss you/i", c.Body)
	assert.Equal(t, "v1", c.SessionID)
}

func TestComment_CustomMaxBody(t *testing.T) {
	f := newPageFixture(t)
	f.comments.MaxBodyRunes = 5
	_, err := f.comments.Create(context.Background(), "v1", "owner", "A", "123456")
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestComment_ListPage(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	items, total, err := f.comments.ListPage(ctx, "owner", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, items)

	for _, body := range []string{"a", "b", "c"} {
		_, err := f.comments.Create(ctx, "v1", "owner", "V", body)
		require.NoError(t, err)
	}
	items, total, err = f.comments.ListPage(ctx, "owner", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)

	_, _, err = f.comments.ListPage(ctx, "ghost", 1, 10)
	assert.ErrorIs(t, err, ErrPageNotFound)

	count, latest, err := f.comments.Stats(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NotNil(t, latest)
}

func TestComment_DeleteRights(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	c1, err := f.comments.Create(ctx, "writer", "owner", "W", "one")
	require.NoError(t, err)
	c2, err := f.comments.Create(ctx, "writer", "owner", "W", "two")
	require.NoError(t, err)

	assert.ErrorIs(t, f.comments.Delete(ctx, "stranger", "owner", c1.ID), ErrForbiddenComment)
	assert.NoError(t, f.comments.Delete(ctx, "writer", "owner", c1.ID))
	assert.NoError(t, f.comments.Delete(ctx, "owner", "owner", c2.ID), "page owner may moderate")
	assert.ErrorIs(t, f.comments.Delete(ctx, "writer", "owner", c1.ID), ErrCommentNotFound)
}

func TestReaction_ReactAndSummary(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	_, err := f.reactions.React(ctx, "v1", "owner", "wave")
	assert.ErrorIs(t, err, ErrInvalidReaction)

	_, err = f.reactions.React(ctx, "v1", "ghost", "heart")
	assert.ErrorIs(t, err, ErrPageNotFound)

	r, err := f.reactions.React(ctx, "v1", "owner", " HEART ")
	require.NoError(t, err)
	assert.Equal(t, "heart", r.Kind)

	_, err = f.reactions.React(ctx, "v1", "owner", "clap")
	assert.ErrorIs(t, err, ErrDuplicateReaction)

	_, err = f.reactions.React(ctx, "v2", "owner", "clap")
	require.NoError(t, err)

	sum, err := f.reactions.Summary(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, sum, len(domain.ReactionKinds))
	assert.Equal(t, int64(1), sum["heart"])
	assert.Equal(t, int64(1), sum["clap"])
	assert.Equal(t, int64(0), sum["salute"])
}
