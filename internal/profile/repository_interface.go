package profile

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID int) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
}
