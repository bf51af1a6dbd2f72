package factory

import (
	"fmt"
	"time"

	"github.com/evhartley/fiction-passport/internal/dependencies/mocks"
	"github.com/evhartley/fiction-passport/internal/services/auth"
	"github.com/evhartley/fiction-passport/internal/services/plan"
	memorysession "github.com/evhartley/fiction-passport/internal/session/memory"
	"github.com/evhartley/fiction-passport/internal/storage/sqlite"
	"github.com/evhartley/fiction-passport/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with an in-memory
// database, in-memory sessions and a mocked clock
func NewTestApp() (*TestApp, error) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening test database: %w", err)
	}

	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	sessions := memorysession.NewWithNow(mockClock.Now)

	app := newWithDependencies(store, sessions, mockClock, auth.DefaultConfig(), plan.Config{}, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}, nil
}
