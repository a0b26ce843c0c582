package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type ProfileReader interface {
	GetProfile(ctx context.Context, id uuid.UUID) (Profile, error)
}

type ProfileWriter interface {
	UpdateProfile(ctx context.Context, p Profile) error
}
