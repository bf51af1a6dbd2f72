package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/session"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.store = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StoreSuite) TestSaveAndGet() {
	sess := &session.Session{
		Token:     "tok-1",
		UserID:    42,
		Username:  "alice",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}

	s.Require().NoError(s.store.Save(s.ctx, sess))

	got, err := s.store.Get(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(int64(42), got.UserID)
	s.Equal("alice", got.Username)
}

func (s *StoreSuite) TestGetUnknownToken() {
	_, err := s.store.Get(s.ctx, "nope")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *StoreSuite) TestExpiredSessionRejected() {
	sess := &session.Session{
		Token:     "tok-1",
		UserID:    42,
		Username:  "alice",
		CreatedAt: time.Now().Add(-2 * time.Hour).UTC(),
		ExpiresAt: time.Now().Add(-time.Hour).UTC(),
	}
	s.Require().NoError(s.store.Save(s.ctx, sess))

	_, err := s.store.Get(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *StoreSuite) TestKeyExpiresViaTTL() {
	sess := &session.Session{
		Token:     "tok-1",
		UserID:    42,
		Username:  "alice",
		ExpiresAt: time.Now().Add(48 * time.Hour).UTC(),
	}
	s.Require().NoError(s.store.Save(s.ctx, sess))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.store.Get(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrInvalidSession)
}

func (s *StoreSuite) TestDelete() {
	sess := &session.Session{
		Token:     "tok-1",
		UserID:    42,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	s.Require().NoError(s.store.Save(s.ctx, sess))
	s.Require().NoError(s.store.Delete(s.ctx, "tok-1"))

	_, err := s.store.Get(s.ctx, "tok-1")
	s.ErrorIs(err, model.ErrInvalidSession)
}
