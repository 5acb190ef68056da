package validator

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	Rating    int      `validate:"required,min=1,max=5"`
	Title     string   `validate:"required,min=1,max=200"`
	Body      string   `validate:"required,min=1,max=2000"`
	ImageURLs []string `validate:"omitempty,dive,url"`
}

func TestValidate_OK(t *testing.T) {
	form := reviewForm{
		Rating: 5,
		Title:  "Great product!",
		Body:   "Exceeded expectations in every way and then some.",
		ImageURLs: []string{
			"https://images.example.com/a.jpg",
			"https://images.example.com/b.jpg",
		},
	}

	assert.NoError(t, Validate(form))
}

func TestValidate_RatingOutOfRange(t *testing.T) {
	form := reviewForm{Rating: 6, Title: "t", Body: "b"}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Contains(t, fields, "Rating")
	assert.Equal(t, "must be at most 5", fields["Rating"])
}

func TestValidate_ReportsEveryViolatedField(t *testing.T) {
	form := reviewForm{
		Rating:    0,
		Title:     "",
		Body:      "",
		ImageURLs: []string{"not a url"},
	}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Contains(t, fields, "Rating")
	assert.Contains(t, fields, "Title")
	assert.Contains(t, fields, "Body")
	// The offending element is reported with its index.
	assert.Contains(t, fields, "ImageURLs[0]")
}

func TestValidate_TitleTooLong(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	form := reviewForm{Rating: 3, Title: string(long), Body: "fine"}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be at most 200 characters", valErr.Fields()["Title"])
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		body := `{"Rating":4,"Title":"Solid","Body":"Works as advertised."}`
		r := httptest.NewRequest("POST", "/reviews", strings.NewReader(body))

		var form reviewForm
		require.NoError(t, DecodeAndValidate(r, &form))
		assert.Equal(t, 4, form.Rating)
	})

	t.Run("malformed json is not a validation error", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/reviews", strings.NewReader(`{"Rating":`))

		var form reviewForm
		err := DecodeAndValidate(r, &form)
		require.Error(t, err)

		var valErr *ValidationError
		assert.False(t, errors.As(err, &valErr))
	})

	t.Run("decoded body is validated", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/reviews", strings.NewReader(`{"Rating":9,"Title":"t","Body":"b"}`))

		var form reviewForm
		err := DecodeAndValidate(r, &form)
		require.Error(t, err)

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Contains(t, valErr.Fields(), "Rating")
	})
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(reviewForm{Rating: 0, Title: "t", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rating")
}
