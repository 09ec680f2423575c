package usecase

import (
	"context"
	"testing"

	"cottage-booking/internal/delivery/dto"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_SubscribeUnsubscribeResubscribe(t *testing.T) {
	db := newTestDB(t)
	uc := NewSubscriberUsecase(db, newTestLogger(), repository.NewSubscriberRepository())
	ctx := context.Background()

	sub, err := uc.Subscribe(ctx, &dto.SubscribeRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "active", sub.Status)

	require.NoError(t, uc.Unsubscribe(ctx, sub.ID))

	var stored entity.Subscriber
	require.NoError(t, db.First(&stored, "id = ?", sub.ID).Error)
	assert.Equal(t, entity.SubscriberStatusUnsubscribed, stored.Status)

	again, err := uc.Subscribe(ctx, &dto.SubscribeRequest{Name: "Ada L", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, "active", again.Status)
	assert.Equal(t, "Ada L", again.Name)

	assert.ErrorIs(t, uc.Unsubscribe(ctx, uuid.New()), ErrSubscriberNotFound)
}
