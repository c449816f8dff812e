package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	t.Run("AppError passes through", func(t *testing.T) {
		orig := NewCountryNotFound("atlantis")
		assert.Same(t, orig, FromError(fmt.Errorf("wrapped: %w", orig)))
	})

	t.Run("Fiber not found", func(t *testing.T) {
		appErr := FromError(fiber.ErrNotFound)
		assert.Equal(t, ErrCodeNotFound, appErr.Code)
		assert.Equal(t, fiber.StatusNotFound, appErr.StatusCode)
	})

	t.Run("Unknown error becomes internal", func(t *testing.T) {
		cause := errors.New("boom")
		appErr := FromError(cause)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, cause)
	})

	t.Run("Nil", func(t *testing.T) {
		assert.Nil(t, FromError(nil))
	})
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("add: %w", NewDuplicateVisit("FR", 1, nil))

	assert.True(t, HasCode(err, ErrCodeDuplicateVisit))
	assert.False(t, HasCode(err, ErrCodeCountryNotFound))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeDuplicateVisit))
}

func TestUserVisibleMessages(t *testing.T) {
	assert.Equal(t, "Country name does not exist, try again.", NewCountryNotFound("x").Message)
	assert.Equal(t, "Country has already been added, try again.", NewDuplicateVisit("FR", 1, nil).Message)
	assert.NotEqual(t, MsgDuplicateVisit, NewStorageFailure("insert", errors.New("down")).Message)
}

func TestLogFields(t *testing.T) {
	fields := NewDuplicateVisit("FR", 4, errors.New("pq: duplicate key")).LogFields()

	assert.Equal(t, "DUPLICATE_VISIT", fields["code"])
	assert.Equal(t, "add_visited_country", fields["operation"])
	assert.Equal(t, "FR", fields["country_code"])
	assert.Equal(t, int64(4), fields["user_id"])
	assert.Equal(t, "pq: duplicate key", fields["internal"])
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 60))

	// a cut at byte 5 would split the two-byte 'ç'
	got := truncateString("Curaçao São Tomé", 5)
	assert.Equal(t, "Curaç...", got)
	assert.True(t, utf8.ValidString(got))

	detail := NewCountryNotFound(strings.Repeat("é", 80)).Details["input"].(string)
	assert.True(t, utf8.ValidString(detail))
	assert.Equal(t, 63, utf8.RuneCountInString(detail))
}
