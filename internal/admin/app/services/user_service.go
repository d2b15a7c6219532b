package services

import (
	"context"
	"errors"
	"fmt"

	"blueberry/internal/admin/app/core"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type UserService struct {
	users core.IUserRepo
	mylog logger.Logger
}

func NewUserService(users core.IUserRepo, mylog logger.Logger) *UserService {
	return &UserService{users: users, mylog: mylog}
}

func (us *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	r := models.Role(role)
	if r != "" && !r.Valid() {
		return nil, core.ErrInvalidRole
	}
	users, err := us.users.List(ctx, r)
	if err != nil {
		us.mylog.Action("list_users").Error("Failed to list users", err)
		return nil, fmt.Errorf("cannot list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (us *UserService) Get(ctx context.Context, uid string) (models.User, error) {
	u, err := us.users.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, core.ErrUserNotFound
	}
	if err != nil {
		us.mylog.Action("get_user").Error("Failed to get user", err, "user_id", uid)
		return models.User{}, fmt.Errorf("cannot get user: %w", err)
	}
	return u, nil
}

// ChangeRole sets the role of uid. An admin cannot change their own role.
func (us *UserService) ChangeRole(ctx context.Context, actor, uid, role string) (models.User, error) {
	mylog := us.mylog.Action("change_role").With("user_id", uid, "actor", actor)

	r := models.Role(role)
	if !r.Valid() {
		return models.User{}, core.ErrInvalidRole
	}
	if actor == uid {
		return models.User{}, core.ErrSelfDemotion
	}

	u, err := us.users.UpdateRole(ctx, uid, r)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, core.ErrUserNotFound
	}
	if err != nil {
		mylog.Error("Failed to change role", err)
		return models.User{}, fmt.Errorf("cannot change role: %w", err)
	}
	mylog.Info("Role changed", "role", string(r))
	return u, nil
}

func (us *UserService) Delete(ctx context.Context, actor, uid string) error {
	mylog := us.mylog.Action("delete_user").With("user_id", uid, "actor", actor)
	if actor == uid {
		return core.ErrSelfDemotion
	}
	err := us.users.Delete(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return core.ErrUserNotFound
	}
	if err != nil {
		mylog.Error("Failed to delete user", err)
		return fmt.Errorf("cannot delete user: %w", err)
	}
	mylog.Info("User deleted")
	return nil
}
