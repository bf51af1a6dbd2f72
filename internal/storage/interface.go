package storage

import (
	"context"

	"github.com/evhartley/fiction-passport/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Stamp operations
	CreateStamp(ctx context.Context, stamp *model.Stamp) error
	RecentStamps(ctx context.Context, userID int64, limit int) ([]*model.Stamp, error)
	HasStampsBeyond(ctx context.Context, userID int64, offset int) (bool, error)
	CountStampsByMeans(ctx context.Context, userID int64) ([]model.GroupCount, error)
	CountStampsByLocationType(ctx context.Context, userID int64) ([]model.GroupCount, error)
	AllStamps(ctx context.Context, userID int64) ([]*model.Stamp, error)
	LatestStamp(ctx context.Context, userID int64) (*model.Stamp, error)
	CountStamps(ctx context.Context, userID int64) (int64, error)
	DeleteStamp(ctx context.Context, userID, stampID int64) error

	Close() error
}
