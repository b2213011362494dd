package form_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/form"
)

func TestLogin_MissingUsername(t *testing.T) {
	res := form.Login.Validate(form.Record{"username": "", "password": "x"})

	require.Contains(t, res, "username")
	assert.Contains(t, res["username"], "required")
	assert.NotContains(t, res, "password")
	assert.False(t, res.Valid())
}

func TestLogin_AnyNonEmptyUsernameAccepted(t *testing.T) {
	for _, username := range []string{"a", " ", "user@example.com", "نکسا"} {
		res := form.Login.Validate(form.Record{"username": username, "password": "secret"})
		assert.True(t, res.Valid(), "username %q", username)
	}
}

func TestRequiredFields_AlwaysReported(t *testing.T) {
	schemas := []*form.Schema{form.Login, form.ForgotPassword, form.ResetPassword, form.Register, form.Agent}
	for _, s := range schemas {
		t.Run(s.Name, func(t *testing.T) {
			res := s.Validate(form.Record{})
			for _, f := range s.Fields {
				if f.Required {
					assert.NotEmpty(t, res[f.Name], "field %s", f.Name)
				} else {
					assert.NotContains(t, res, f.Name)
				}
			}
		})
	}
}

func TestForgotPassword_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "not an email", email: "not-an-email", wantErr: true},
		{name: "missing domain", email: "user@", wantErr: true},
		{name: "valid", email: "user@example.com", wantErr: false},
		{name: "empty", email: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := form.ForgotPassword.Validate(form.Record{"email": tt.email})
			if tt.wantErr {
				assert.NotEmpty(t, res["email"])
			} else {
				assert.True(t, res.Valid())
			}
		})
	}
}

func TestResetPassword_MismatchFlagsConfirmOnly(t *testing.T) {
	res := form.ResetPassword.Validate(form.Record{"password": "a", "cpassword": "b"})

	assert.Len(t, res, 1)
	assert.NotEmpty(t, res["cpassword"])
}

func TestResetPassword_NoTrimming(t *testing.T) {
	res := form.ResetPassword.Validate(form.Record{"password": "secret", "cpassword": "secret "})
	assert.NotEmpty(t, res["cpassword"])

	res = form.ResetPassword.Validate(form.Record{"password": "secret", "cpassword": "secret"})
	assert.True(t, res.Valid())
}

func TestAgent_ModelAndTemperature(t *testing.T) {
	res := form.Agent.Validate(form.Record{"name": "Sales", "model": "gpt-2", "temperature": "3"})
	assert.NotEmpty(t, res["model"])
	assert.NotEmpty(t, res["temperature"])

	res = form.Agent.Validate(form.Record{"name": "Sales", "model": string(domain.AgentModelGPT4o), "temperature": "0.5"})
	assert.True(t, res.Valid())

	res = form.Agent.Validate(form.Record{"name": "Sales", "temperature": "warm"})
	assert.Equal(t, "must be a number", res["temperature"])
}

func TestAgent_TemperatureRejectsNonFinite(t *testing.T) {
	for _, value := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		res := form.Agent.Validate(form.Record{"name": "Sales", "temperature": value})
		assert.Equal(t, "must be between 0 and 2", res["temperature"], value)
	}
}

func TestValidateField(t *testing.T) {
	rec := form.Record{"password": "a", "cpassword": "b"}

	msg, err := form.ResetPassword.ValidateField(rec, "password")
	require.NoError(t, err)
	assert.Empty(t, msg)

	msg, err = form.ResetPassword.ValidateField(rec, "cpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = form.ResetPassword.ValidateField(rec, "email")
	assert.ErrorIs(t, err, domain.ErrUnknownForm)
}

func TestBind_KeepsDeclaredFieldsOnly(t *testing.T) {
	values := url.Values{"username": {"alice"}, "password": {"pw"}, "is_admin": {"true"}}

	rec := form.Login.Bind(values)

	assert.Equal(t, form.Record{"username": "alice", "password": "pw"}, rec)
}

func TestLookup(t *testing.T) {
	s, err := form.Lookup(form.ResetPasswordForm)
	require.NoError(t, err)
	assert.Same(t, form.ResetPassword, s)

	_, err = form.Lookup("payment")
	assert.ErrorIs(t, err, domain.ErrUnknownForm)
}
