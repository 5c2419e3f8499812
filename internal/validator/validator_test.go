package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		req        interface{}
		wantFields []string
	}{
		{
			name: "valid user",
			req: &UserCreateRequest{
				Email:     "mentor@example.com",
				FirstName: "Ada",
				LastName:  "Lovelace",
				ChapterID: 1,
			},
		},
		{
			name:       "missing email and blank first name",
			req:        &UserCreateRequest{FirstName: "   ", LastName: "L", ChapterID: 1},
			wantFields: []string{"email", "first_name"},
		},
		{
			name:       "wwc check missing fields",
			req:        &WWCCheckRequest{},
			wantFields: []string{"wwc_number", "expiry_date"},
		},
		{
			name:       "bad expiry date",
			req:        &PoliceCheckRequest{ExpiryDate: "31/12/2025"},
			wantFields: []string{"expiry_date"},
		},
		{
			name: "valid session",
			req:  &SessionCreateRequest{ChapterID: 1, MentorID: 2, AttendedOn: "2024-03-02"},
		},
		{
			name:       "role id must be a uuid",
			req:        &RoleAssignmentRequest{RoleID: "admin"},
			wantFields: []string{"role_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var ve ValidationErrors
			require.True(t, errors.As(err, &ve), "expected ValidationErrors, got %v", err)

			fields := make([]string, 0, len(ve))
			for _, e := range ve {
				fields = append(fields, e.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
	assert.Equal(t, "validation failed: email is required", ValidationErrors{{Field: "email", Message: "is required"}}.Error())
	assert.Equal(t, "validation failed: 2 field errors", ValidationErrors{{}, {}}.Error())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
}
