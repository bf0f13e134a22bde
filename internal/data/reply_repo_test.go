package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
	"github.com/tradedispatch/dispatch-api/internal/testutil"
)

func TestReplyRepo_Transition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewReplyRepo(db)
	ctx := context.Background()

	id := testutil.SeedReply(t, db, "customer@example.com")

	reply, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ReplyStatusPending, reply.Status)

	claimed, err := repo.Transition(ctx, core.ReplyTransitionParams{ID: id, Status: model.ReplyStatusSending})
	require.NoError(t, err)
	assert.Equal(t, model.ReplyStatusSending, claimed.Status)
	assert.Equal(t, "customer@example.com", claimed.ToEmail)

	_, err = repo.Transition(ctx, core.ReplyTransitionParams{ID: id, Status: model.ReplyStatusSending})
	require.ErrorIs(t, err, ErrReplyNotPending, "second claim loses")

	now := time.Now().UTC()
	sent, err := repo.Transition(ctx, core.ReplyTransitionParams{
		ID: id, From: model.ReplyStatusSending, Status: model.ReplyStatusSent, At: &now,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReplyStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	_, err = repo.Transition(ctx, core.ReplyTransitionParams{ID: id, Status: model.ReplyStatusRejected})
	require.ErrorIs(t, err, ErrReplyNotPending)

	_, err = repo.Transition(ctx, core.ReplyTransitionParams{
		ID: "00000000-0000-0000-0000-000000000000", Status: model.ReplyStatusRejected,
	})
	require.ErrorIs(t, err, ErrReplyNotFound)

	_, err = repo.GetByID(ctx, "bogus")
	require.ErrorIs(t, err, ErrReplyNotFound)
}
