package tracker

import (
	"context"
	"strings"
	"time"

	"travelmap/apperrors"
	"travelmap/db"
	"travelmap/pkg/breaker"
	"travelmap/pkg/logger"
	"travelmap/pkg/metrics"
	"travelmap/services/sessions"

	"github.com/sony/gobreaker"
)

// Store is the subset of db.Queries the tracker needs
type Store interface {
	ListUsers(ctx context.Context) ([]db.User, error)
	CreateUser(ctx context.Context, arg db.CreateUserParams) (db.User, error)
	FindCountriesByName(ctx context.Context, fragment string) ([]db.Country, error)
	ListVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error)
	AddVisitedCountry(ctx context.Context, arg db.AddVisitedCountryParams) error
}

const defaultQueryTimeout = 5 * time.Second

// Service runs the visited-country flows against storage and the shared
// current-user selection.
type Service struct {
	store   Store
	state   sessions.State
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

type Option func(*Service)

// WithQueryTimeout bounds every storage call
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewService(store Store, state sessions.State, opts ...Option) *Service {
	s := &Service{
		store:   store,
		state:   state,
		timeout: defaultQueryTimeout,
		cb: breaker.New(breaker.Config{
			Name:        "postgres-tracker",
			MaxRequests: 10,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			Threshold:   0.6,
			MinRequests: 10,
			IsSuccessful: func(err error) bool {
				return err == nil || db.IsUniqueViolation(err)
			},
		}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func query[T any](ctx context.Context, s *Service, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	v, err := breaker.ExecuteCtx(ctx, s.cb, func() (T, error) {
		return fn(ctx)
	})
	metrics.RecordDatabaseQuery(name, time.Since(start).Seconds(), err == nil || db.IsUniqueViolation(err))

	if breaker.IsOpen(err) {
		metrics.IncrementBreakerRejections(s.cb.Name())
		return v, apperrors.NewCircuitBreakerError("postgres", err).WithDetails("query", name)
	}

	return v, err
}

// unavailable reports a call refused by the breaker, which is passed through unwrapped
func unavailable(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeServiceUnavail)
}

// CurrentUserID returns the stored selection, which may not match any user
func (s *Service) CurrentUserID(ctx context.Context) int64 {
	return s.state.CurrentUserID(ctx)
}

// SwitchUser changes the current user without checking that it exists
func (s *Service) SwitchUser(ctx context.Context, userID int64) {
	s.state.SetCurrentUserID(ctx, userID)
	metrics.IncrementUserSwitches()
	logger.WithField("user_id", userID).Info("Current user switched")
}

// ListUsers returns every user in id order
func (s *Service) ListUsers(ctx context.Context) ([]db.User, error) {
	users, err := query(ctx, s, "list_users", func(ctx context.Context) ([]db.User, error) {
		return s.store.ListUsers(ctx)
	})
	if err != nil {
		if unavailable(err) {
			return nil, err
		}
		return nil, apperrors.NewDatabaseError("list_users", err)
	}
	return users, nil
}

// ListVisitedCountryCodes returns the user's visited country codes ordered by code
func (s *Service) ListVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error) {
	codes, err := query(ctx, s, "list_visited_country_codes", func(ctx context.Context) ([]string, error) {
		return s.store.ListVisitedCountryCodes(ctx, userID)
	})
	if err != nil {
		if unavailable(err) {
			return nil, err
		}
		return nil, apperrors.NewDatabaseError("list_visited_country_codes", err).
			WithDetails("user_id", userID)
	}
	return codes, nil
}

// AddVisitedCountry marks the first country whose name contains rawInput as
// visited by the current user. Blank input and an empty user table are
// no-ops and return nil.
func (s *Service) AddVisitedCountry(ctx context.Context, rawInput string) error {
	input := strings.TrimSpace(rawInput)
	if input == "" {
		logger.Debug("Ignoring blank country submission")
		return nil
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return s.addFailure("list_users", err)
	}

	user, ok := ResolveCurrentUser(s.state.CurrentUserID(ctx), users)
	if !ok {
		logger.Debug("No users exist yet, ignoring country submission")
		return nil
	}

	countries, err := query(ctx, s, "find_countries_by_name", func(ctx context.Context) ([]db.Country, error) {
		return s.store.FindCountriesByName(ctx, strings.ToLower(input))
	})
	if err != nil {
		return s.addFailure("find_countries_by_name", err)
	}
	if len(countries) == 0 {
		metrics.IncrementAddCountryFailures("not_found")
		return apperrors.NewCountryNotFound(input)
	}

	// Rows come back ordered by code, so an ambiguous fragment always
	// resolves to the same country.
	country := countries[0]

	_, err = query(ctx, s, "add_visited_country", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.AddVisitedCountry(ctx, db.AddVisitedCountryParams{
			CountryCode: country.CountryCode,
			UserID:      user.ID,
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			metrics.IncrementAddCountryFailures("duplicate")
			return apperrors.NewDuplicateVisit(country.CountryCode, user.ID, err)
		}
		if unavailable(err) {
			return s.addFailure("add_visited_country", err)
		}
		metrics.IncrementAddCountryFailures("storage")
		return apperrors.NewStorageFailure("add_visited_country", err).
			WithDetails("country_code", country.CountryCode).
			WithDetails("user_id", user.ID)
	}

	metrics.IncrementCountriesAdded()
	logger.WithFields(map[string]any{
		"user_id":      user.ID,
		"country_code": country.CountryCode,
	}).Info("Visited country added")

	return nil
}

func (s *Service) addFailure(op string, err error) error {
	if unavailable(err) {
		metrics.IncrementAddCountryFailures("unavailable")
		return err
	}
	metrics.IncrementAddCountryFailures("storage")
	return apperrors.NewStorageFailure(op, err)
}

// CreateUser stores a new user and makes it the current user
func (s *Service) CreateUser(ctx context.Context, name, color string) (db.User, error) {
	user, err := query(ctx, s, "create_user", func(ctx context.Context) (db.User, error) {
		return s.store.CreateUser(ctx, db.CreateUserParams{Name: name, Color: color})
	})
	if err != nil {
		if unavailable(err) {
			return db.User{}, err
		}
		return db.User{}, apperrors.NewUserSaveFailure(err)
	}

	s.state.SetCurrentUserID(ctx, user.ID)
	metrics.IncrementUsersCreated()
	logger.WithFields(map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
	}).Info("User created")

	return user, nil
}

// HomePage assembles the home view for the current user. It never fails:
// storage errors are logged and produce the empty gray view.
func (s *Service) HomePage(ctx context.Context, errMsg string) ViewModel {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return s.fallbackView(err, errMsg)
	}

	user, ok := ResolveCurrentUser(s.state.CurrentUserID(ctx), users)
	if !ok {
		return BuildViewModel(nil, nil, "", errMsg)
	}

	countries, err := s.ListVisitedCountryCodes(ctx, user.ID)
	if err != nil {
		return s.fallbackView(err, errMsg)
	}

	vm := BuildViewModel(countries, users, user.Color, errMsg)
	vm.CurrentUserID = user.ID
	return vm
}

func (s *Service) fallbackView(err error, errMsg string) ViewModel {
	metrics.IncrementHomeFallbacks()
	if appErr := apperrors.FromError(err); appErr != nil {
		logger.WithFields(appErr.LogFields()).Error("Home page storage failure, rendering empty view")
	}
	return BuildViewModel(nil, nil, "", errMsg)
}
