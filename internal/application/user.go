package app

import (
	"context"
	"errors"
	"fmt"

	"face-capture/internal/domain/entity"
	"face-capture/internal/domain/port"
)

// ErrInvalidTransition переход диалога не разрешён из текущего состояния
var ErrInvalidTransition = errors.New("invalid user state transition")

// В главное меню можно вернуться из любого состояния
var userTransitions = map[entity.UserState][]entity.UserState{
	entity.StateMainMenu:       {entity.StateAwaitingSelfie},
	entity.StateAwaitingSelfie: {entity.StateAwaitingSelfie, entity.StateProcessing},
	entity.StateProcessing:     {},
}

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState переводит пользователя в новое состояние диалога
func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if !canTransition(user.State, state) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, user.State, state)
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateProcessing)
}

// FinishCheck засчитывает проверку селфи и возвращает в главное меню
func (s *UserService) FinishCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	user.RecordCheck()
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

func canTransition(from, to entity.UserState) bool {
	if to == entity.StateMainMenu {
		return true
	}
	for _, allowed := range userTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
