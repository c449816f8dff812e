package tracker_test

import (
	"context"
	"errors"
	"testing"

	"travelmap/apperrors"
	"travelmap/db"
	"travelmap/pkg/metrics"
	"travelmap/services/sessions"
	"travelmap/services/tracker"
	"travelmap/tests/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	france  = db.Country{CountryCode: "FR", CountryName: "France"}
	germany = db.Country{CountryCode: "DE", CountryName: "Germany"}
	niger   = db.Country{CountryCode: "NE", CountryName: "Niger"}
	nigeria = db.Country{CountryCode: "NG", CountryName: "Nigeria"}
)

func newFixture(t *testing.T, users ...db.User) (*tracker.Service, *mocks.MemoryStore, *sessions.MemoryState) {
	t.Helper()

	store := mocks.NewMemoryStore()
	store.SeedUsers(users...)
	store.SeedCountries(france, germany, niger, nigeria)

	state := sessions.NewMemoryState(1)
	return tracker.NewService(store, state), store, state
}

func TestResolveCurrentUser(t *testing.T) {
	users := []db.User{
		{ID: 1, Name: "Angela", Color: "teal"},
		{ID: 2, Name: "Jack", Color: "powderblue"},
	}

	tests := []struct {
		name      string
		currentID int64
		users     []db.User
		wantID    int64
		wantOK    bool
	}{
		{name: "Matching id", currentID: 2, users: users, wantID: 2, wantOK: true},
		{name: "Unknown id falls back to first", currentID: 99, users: users, wantID: 1, wantOK: true},
		{name: "Zero id falls back to first", currentID: 0, users: users, wantID: 1, wantOK: true},
		{name: "No users", currentID: 1, users: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tracker.ResolveCurrentUser(tt.currentID, tt.users)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestBuildViewModel(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		vm := tracker.BuildViewModel(nil, nil, "", "")

		assert.Equal(t, []string{}, vm.Countries)
		assert.Equal(t, 0, vm.Total)
		assert.Equal(t, []db.User{}, vm.Users)
		assert.Equal(t, "gray", vm.Color)
		assert.Empty(t, vm.Error)
	})

	t.Run("Counts countries", func(t *testing.T) {
		vm := tracker.BuildViewModel([]string{"FR", "DE", "FR"}, nil, "red", "oops")

		assert.Equal(t, 3, vm.Total)
		assert.Equal(t, "red", vm.Color)
		assert.Equal(t, "oops", vm.Error)
	})
}

func TestAddVisitedCountry_BlankInputIsNoop(t *testing.T) {
	svc, store, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	for _, input := range []string{"", "   ", "\t\n"} {
		require.NoError(t, svc.AddVisitedCountry(context.Background(), input))
	}

	assert.Empty(t, store.Visited())
}

func TestAddVisitedCountry_NoUsersIsNoop(t *testing.T) {
	svc, store, _ := newFixture(t)

	require.NoError(t, svc.AddVisitedCountry(context.Background(), "france"))
	assert.Empty(t, store.Visited())
}

func TestAddVisitedCountry_InsertsOnce(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	require.NoError(t, svc.AddVisitedCountry(ctx, "france"))

	visited := store.Visited()
	require.Len(t, visited, 1)
	assert.Equal(t, "FR", visited[0].CountryCode)
	assert.Equal(t, int64(1), visited[0].UserID)

	codes, err := svc.ListVisitedCountryCodes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"FR"}, codes)
}

func TestAddVisitedCountry_SecondAttemptIsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	require.NoError(t, svc.AddVisitedCountry(ctx, "France"))
	err := svc.AddVisitedCountry(ctx, "France")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateVisit))
	assert.Equal(t, "Country has already been added, try again.", apperrors.FromError(err).Message)
	assert.Len(t, store.Visited(), 1)
}

func TestAddVisitedCountry_UnknownCountry(t *testing.T) {
	svc, store, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	err := svc.AddVisitedCountry(context.Background(), "doesnotexist")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCountryNotFound))
	assert.Equal(t, "Country name does not exist, try again.", apperrors.FromError(err).Message)
	assert.Empty(t, store.Visited())
}

func TestAddVisitedCountry_SubstringMatchIsCaseInsensitive(t *testing.T) {
	svc, store, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	require.NoError(t, svc.AddVisitedCountry(context.Background(), "  RMAN "))

	visited := store.Visited()
	require.Len(t, visited, 1)
	assert.Equal(t, "DE", visited[0].CountryCode)
}

func TestAddVisitedCountry_AmbiguousPicksLowestCode(t *testing.T) {
	svc, store, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	// "niger" matches both Niger (NE) and Nigeria (NG)
	require.NoError(t, svc.AddVisitedCountry(context.Background(), "niger"))

	visited := store.Visited()
	require.Len(t, visited, 1)
	assert.Equal(t, "NE", visited[0].CountryCode)
}

func TestAddVisitedCountry_StaleCurrentUserUsesFirstUser(t *testing.T) {
	ctx := context.Background()
	svc, store, state := newFixture(t,
		db.User{ID: 4, Name: "A", Color: "red"},
		db.User{ID: 5, Name: "B", Color: "blue"},
	)
	state.SetCurrentUserID(ctx, 77)

	require.NoError(t, svc.AddVisitedCountry(ctx, "france"))

	visited := store.Visited()
	require.Len(t, visited, 1)
	assert.Equal(t, int64(4), visited[0].UserID)
}

func TestAddVisitedCountry_StorageFailureIsNotDuplicate(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("ListUsers", mock.Anything).Return([]db.User{{ID: 1, Name: "A", Color: "red"}}, nil)
	store.On("FindCountriesByName", mock.Anything, "france").Return([]db.Country{france}, nil)
	store.On("AddVisitedCountry", mock.Anything, db.AddVisitedCountryParams{CountryCode: "FR", UserID: 1}).
		Return(errors.New("connection reset by peer"))

	svc := tracker.NewService(store, sessions.NewMemoryState(1))
	err := svc.AddVisitedCountry(context.Background(), "France")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
	assert.NotEqual(t, apperrors.MsgDuplicateVisit, apperrors.FromError(err).Message)
	store.AssertExpectations(t)
}

func TestCreateUser_BecomesCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, _, state := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	user, err := svc.CreateUser(ctx, "Alice", "blue")
	require.NoError(t, err)

	assert.Equal(t, int64(2), user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "blue", user.Color)
	assert.Equal(t, user.ID, state.CurrentUserID(ctx))
	assert.Equal(t, user.ID, svc.CurrentUserID(ctx))
}

func TestCreateUser_AcceptsEmptyFields(t *testing.T) {
	svc, _, _ := newFixture(t)

	user, err := svc.CreateUser(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestCreateUser_StorageFailure(t *testing.T) {
	ctx := context.Background()
	store := &mocks.MockStore{}
	store.On("CreateUser", mock.Anything, db.CreateUserParams{Name: "Alice", Color: "blue"}).
		Return(db.User{}, errors.New("database is down"))

	state := sessions.NewMemoryState(1)
	svc := tracker.NewService(store, state)

	_, err := svc.CreateUser(ctx, "Alice", "blue")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
	assert.Equal(t, apperrors.MsgUserNotSaved, apperrors.FromError(err).Message)
	assert.Equal(t, int64(1), state.CurrentUserID(ctx), "failed creation must not change the current user")
}

func TestHomePage_CurrentUserView(t *testing.T) {
	ctx := context.Background()
	svc, _, state := newFixture(t,
		db.User{ID: 1, Name: "A", Color: "red"},
		db.User{ID: 2, Name: "B", Color: "blue"},
	)
	state.SetCurrentUserID(ctx, 2)
	require.NoError(t, svc.AddVisitedCountry(ctx, "germany"))
	require.NoError(t, svc.AddVisitedCountry(ctx, "france"))

	vm := svc.HomePage(ctx, "")

	assert.Equal(t, []string{"DE", "FR"}, vm.Countries)
	assert.Equal(t, 2, vm.Total)
	assert.Equal(t, "blue", vm.Color)
	assert.Equal(t, int64(2), vm.CurrentUserID)
	assert.Len(t, vm.Users, 2)
}

func TestHomePage_NoUsers(t *testing.T) {
	svc, _, _ := newFixture(t)

	vm := svc.HomePage(context.Background(), "")

	assert.Empty(t, vm.Countries)
	assert.Empty(t, vm.Users)
	assert.Equal(t, "gray", vm.Color)
}

func TestHomePage_StorageUnavailable(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("ListUsers", mock.Anything).Return(nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	svc := tracker.NewService(store, sessions.NewMemoryState(1))
	vm := svc.HomePage(context.Background(), "")

	assert.Equal(t, []string{}, vm.Countries)
	assert.Equal(t, 0, vm.Total)
	assert.Equal(t, []db.User{}, vm.Users)
	assert.Equal(t, "gray", vm.Color)
}

func TestHomePage_VisitedQueryFailsKeepsErrorMessage(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("ListUsers", mock.Anything).Return([]db.User{{ID: 1, Name: "A", Color: "red"}}, nil)
	store.On("ListVisitedCountryCodes", mock.Anything, int64(1)).Return(nil, errors.New("timeout"))

	svc := tracker.NewService(store, sessions.NewMemoryState(1))
	vm := svc.HomePage(context.Background(), apperrors.MsgCountryNotFound)

	assert.Equal(t, 0, vm.Total)
	assert.Equal(t, "gray", vm.Color)
	assert.Equal(t, apperrors.MsgCountryNotFound, vm.Error)
}

func TestSwitchUser_AcceptsUnknownID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFixture(t, db.User{ID: 1, Name: "A", Color: "red"})

	svc.SwitchUser(ctx, 404)

	assert.Equal(t, int64(404), svc.CurrentUserID(ctx))
	vm := svc.HomePage(ctx, "")
	assert.Equal(t, "red", vm.Color, "unknown id must fall back to the first user")
}

func TestStorage_OpenBreakerIsUnavailable(t *testing.T) {
	ctx := context.Background()
	store := &mocks.MockStore{}
	store.On("ListUsers", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := tracker.NewService(store, sessions.NewMemoryState(1))
	rejected := testutil.ToFloat64(metrics.CircuitBreakerRejections.WithLabelValues("postgres-tracker"))

	// Ten straight failures trip the breaker
	for i := 0; i < 10; i++ {
		_, err := svc.ListUsers(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
	}

	_, err := svc.ListUsers(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeServiceUnavail))

	err = svc.AddVisitedCountry(ctx, "france")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeServiceUnavail))
	assert.NotEqual(t, apperrors.MsgDuplicateVisit, apperrors.FromError(err).Message)

	vm := svc.HomePage(ctx, "")
	assert.Equal(t, "gray", vm.Color)

	store.AssertNumberOfCalls(t, "ListUsers", 10)
	assert.Equal(t, rejected+3, testutil.ToFloat64(metrics.CircuitBreakerRejections.WithLabelValues("postgres-tracker")))
}
