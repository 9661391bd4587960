package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"face-capture/internal/domain/entity"
	"face-capture/internal/infrastructure/storage"
)

func TestUserService_CheckFlow(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 1, 10, entity.StateAwaitingSelfie)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingSelfie, user.State)

	user, err = svc.StartProcessing(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)

	user, err = svc.FinishCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 1, user.Checks)
}

func TestUserService_RejectsProcessingFromMenu(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.StartProcessing(ctx, 2, 20)
	require.ErrorIs(t, err, ErrInvalidTransition)

	user, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_CancelFromAnyState(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.SetState(ctx, 3, 30, entity.StateAwaitingSelfie)
	require.NoError(t, err)
	_, err = svc.StartProcessing(ctx, 3, 30)
	require.NoError(t, err)

	user, err := svc.Cancel(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}
