package form

import (
	"fmt"
	"strconv"

	"github.com/mtlprog/nexa/internal/domain"
)

// Form names, also used in URLs of the validation endpoint.
const (
	LoginForm          = "login"
	ForgotPasswordForm = "forget-password"
	ResetPasswordForm  = "reset-password"
	RegisterForm       = "register"
	AgentForm          = "agent"
)

const (
	msgInvalidEmail   = "Enter a valid email address"
	msgRepeatPassword = "Passwords do not match"
	msgInvalidModel   = "Choose one of the listed models"
)

// Login is the sign-in form. The username has no format rule beyond presence.
var Login = &Schema{
	Name: LoginForm,
	Fields: []Field{
		{Name: "username", Label: "Username", Type: "text", Required: true},
		{Name: "password", Label: "Password", Type: "password", Required: true, Sensitive: true},
	},
}

// ForgotPassword asks for the address the reset link is mailed to.
var ForgotPassword = &Schema{
	Name: ForgotPasswordForm,
	Fields: []Field{
		{
			Name: "email", Label: "Email", Type: "email", Placeholder: "m@example.com", Required: true,
			Rules: []Rule{Email(msgInvalidEmail)},
		},
	},
}

// ResetPassword sets a new password. Token and username arrive in the reset
// link and travel as hidden fields.
var ResetPassword = &Schema{
	Name: ResetPasswordForm,
	Fields: []Field{
		{Name: "token", Type: "hidden", Hidden: true},
		{Name: "username", Type: "hidden", Hidden: true},
		{Name: "password", Label: "New password", Type: "password", Required: true, Sensitive: true},
		{
			Name: "cpassword", Label: "Repeat new password", Type: "password", Required: true, Sensitive: true,
			Rules: []Rule{Match("password", msgRepeatPassword)},
		},
	},
}

// Register creates a prospective account awaiting approval.
var Register = &Schema{
	Name: RegisterForm,
	Fields: []Field{
		{Name: "username", Label: "Username", Type: "text", Required: true},
		{
			Name: "email", Label: "Email", Type: "email", Placeholder: "m@example.com", Required: true,
			Rules: []Rule{Email(msgInvalidEmail)},
		},
		{Name: "firstname", Label: "First name", Type: "text"},
		{Name: "lastname", Label: "Last name", Type: "text"},
		{Name: "phone", Label: "Phone", Type: "tel"},
		{Name: "organization", Label: "Organization", Type: "text"},
		{Name: "password", Label: "Password", Type: "password", Required: true, Sensitive: true},
		{
			Name: "cpassword", Label: "Repeat password", Type: "password", Required: true, Sensitive: true,
			Rules: []Rule{Match("password", msgRepeatPassword)},
		},
	},
}

// Agent is the new-agent form on the dashboard.
var Agent = &Schema{
	Name: AgentForm,
	Fields: []Field{
		{Name: "name", Label: "Agent name", Type: "text", Placeholder: "Agent name", Required: true},
		{Name: "description", Label: "Instructions", Type: "textarea"},
		{
			Name: "model", Label: "Model", Type: "select",
			Rules: []Rule{OneOf(modelOptions(), msgInvalidModel)},
		},
		{
			Name: "temperature", Label: "Temperature", Type: "number",
			Placeholder: strconv.FormatFloat(domain.DefaultTemperature, 'f', -1, 64),
			Rules:       []Rule{Range(domain.MinTemperature, domain.MaxTemperature)},
		},
	},
}

var registry = map[string]*Schema{
	LoginForm:          Login,
	ForgotPasswordForm: ForgotPassword,
	ResetPasswordForm:  ResetPassword,
	RegisterForm:       Register,
	AgentForm:          Agent,
}

// Lookup returns the schema registered under name.
func Lookup(name string) (*Schema, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownForm, name)
	}
	return s, nil
}

// ModelOptions lists the agent models accepted by the agent form.
func ModelOptions() []string {
	return modelOptions()
}

func modelOptions() []string {
	opts := make([]string, 0, len(domain.AgentModels))
	for _, m := range domain.AgentModels {
		opts = append(opts, string(m))
	}
	return opts
}
