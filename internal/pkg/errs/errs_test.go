package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "object not found",
			err:      errs.NewObjectNotFoundError("artifactId", "9f1c"),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: 9f1c",
		},
		{
			name:     "object not found with cause",
			err:      errs.NewObjectNotFoundErrorWithCause("artifactId", "9f1c", errStoreDown),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: param is: artifactId, ID is: 9f1c (cause: store unavailable)",
		},
		{
			name:     "object not found with non string id",
			err:      errs.NewObjectNotFoundError("sequence", 7),
			sentinel: errs.ErrObjectNotFound,
			message:  "object not found: %!s(int=7)",
		},
		{
			name:     "invalid value",
			err:      errs.NewValueIsInvalidError("customer.email"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: customer.email",
		},
		{
			name:     "invalid value with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("requestedDeliveryDate", errors.New("not a date")),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: requestedDeliveryDate (cause: not a date)",
		},
		{
			name:     "out of range",
			err:      errs.NewValueIsOutOfRangeError("budget.taxRate", 1.5, 0, 1),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 1.5 is budget.taxRate, min value is 0, max value is 1",
		},
		{
			name:     "out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("budget.discount", -5, 0, 100, errors.New("negative")),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: -5 is budget.discount, min value is 0, max value is 100 (cause: negative)",
		},
		{
			name:     "required value",
			err:      errs.NewValueIsRequiredError("owner"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: owner",
		},
		{
			name:     "required value with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("owner", errors.New("blank")),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: owner (cause: blank)",
		},
		{
			name:     "transition not allowed",
			err:      errs.NewTransitionIsNotAllowedError("workshop", "pendingDocs", "delivered"),
			sentinel: errs.ErrTransitionIsNotAllowed,
			message:  "transition is not allowed: workshop cannot move from pendingDocs to delivered",
		},
		{
			name:     "transition from unassigned",
			err:      errs.NewTransitionIsNotAllowedErrorWithCause("admin", "", "paid", errors.New("not an entry state")),
			sentinel: errs.ErrTransitionIsNotAllowed,
			message:  "transition is not allowed: admin cannot move from unassigned to paid (cause: not an entry state)",
		},
		{
			name: "validation failed",
			err: errs.NewValidationFailedError("commercial/confirmed",
				[]string{"budget.total: is required", "requestedDeliveryDate: is required"}),
			sentinel: errs.ErrValidationFailed,
			message:  "validation failed: commercial/confirmed: budget.total: is required; requestedDeliveryDate: is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
			require.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
		})
	}
}

func TestErrors_FieldsAreExposed(t *testing.T) {
	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, fmt.Errorf("load: %w", errs.NewObjectNotFoundErrorWithCause("artifactId", "9f1c", errStoreDown)), &notFound)
	assert.Equal(t, "artifactId", notFound.ParamName)
	assert.Equal(t, "9f1c", notFound.ID)
	assert.Equal(t, errStoreDown, notFound.Cause)

	rangeErr := errs.NewValueIsOutOfRangeError("budget.taxRate", 1.5, 0, 1)
	assert.Equal(t, "budget.taxRate", rangeErr.ParamName)
	assert.Equal(t, 1.5, rangeErr.Value)
	assert.Equal(t, 0, rangeErr.Min)
	assert.Equal(t, 1, rangeErr.Max)
	require.NoError(t, rangeErr.Cause)

	transition := errs.NewTransitionIsNotAllowedError("commercial", "cancelled", "confirmed")
	assert.Equal(t, "commercial", transition.Scope)
	assert.Equal(t, "cancelled", transition.From)
	assert.Equal(t, "confirmed", transition.To)
}

func TestOutOfRangeError_ShouldFlattenNewlines(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("notes", "first line\nsecond line", 0, 10)

	assert.Contains(t, err.Error(), "first line second line")
	assert.NotContains(t, err.Error(), "\n")
}

func TestValidationFailedError_ShouldCopyProblems(t *testing.T) {
	problems := []string{"holdReason: is required"}
	err := errs.NewValidationFailedError("commercial/onHold", problems)
	problems[0] = "changed"

	assert.Equal(t, "commercial/onHold", err.Target)
	assert.Equal(t, []string{"holdReason: is required"}, err.Problems)
}

func TestSentinels_Messages(t *testing.T) {
	assert.EqualError(t, errs.ErrObjectNotFound, "object not found")
	assert.EqualError(t, errs.ErrValueIsInvalid, "value is invalid")
	assert.EqualError(t, errs.ErrValueIsOutOfRange, "value is out of range")
	assert.EqualError(t, errs.ErrValueIsRequired, "value is required")
	assert.EqualError(t, errs.ErrTransitionIsNotAllowed, "transition is not allowed")
	assert.EqualError(t, errs.ErrValidationFailed, "validation failed")
}
