package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/Sukhad17/Roxiler-Assignment/internal/model"
	"github.com/Sukhad17/Roxiler-Assignment/internal/repository"
	"github.com/Sukhad17/Roxiler-Assignment/internal/utils"
)

// AdminAccount describes the administrator created on first start.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// UserCreator is the subset of the user repository bootstrap needs.
type UserCreator interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// EnsureAdmin creates the bootstrap administrator unless a user with that
// email already exists. An empty email disables bootstrap.
func EnsureAdmin(ctx context.Context, users UserCreator, acct AdminAccount, cost int, log *slog.Logger) error {
	if acct.Email == "" {
		return nil
	}
	if _, err := users.GetByEmail(ctx, acct.Email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "lookup admin")
	}

	if err := utils.ValidatePassword(acct.Password); err != nil {
		return errors.Wrap(err, "admin password")
	}
	hash, err := utils.HashPassword(acct.Password, cost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	u := &model.User{
		Name:         acct.Name,
		Email:        acct.Email,
		PasswordHash: hash,
		Address:      acct.Address,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil
		}
		return errors.Wrap(err, "create admin")
	}
	log.Info("bootstrap admin created", "user_id", u.ID, "email", u.Email)
	return nil
}
