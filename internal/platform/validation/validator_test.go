package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password"`
}

func TestStruct_ReportsFieldsByJSONName(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "abc", Confirm: "abd"})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, map[string]string{
		"email":           "must be a valid email address",
		"password":        "must be at least 6",
		"confirmPassword": "must match Password",
	}, verr.Fields)
	require.Contains(t, err.Error(), "confirmPassword: must match Password")
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "amit@example.com", Password: "secret1", Confirm: "secret1"}))
}

func TestStruct_NotAStruct(t *testing.T) {
	err := Struct(42)
	require.Error(t, err)
	var verr *Error
	require.NotErrorAs(t, err, &verr)
}
