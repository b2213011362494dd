package form_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/nexa/internal/form"
)

func TestState_Lifecycle(t *testing.T) {
	st := form.NewState(form.Login)
	assert.Empty(t, st.Values)
	assert.Empty(t, st.Errors)

	st.Bind(url.Values{"username": {""}, "password": {"hunter2"}})
	assert.False(t, st.Validate())
	assert.NotEmpty(t, st.Error("username"))

	st.Set("username", "alice")
	assert.True(t, st.Validate())
	assert.Equal(t, "alice", st.Value("username"))

	st.Reset()
	assert.Empty(t, st.Values)
	assert.Empty(t, st.Errors)
	assert.False(t, st.Submitting)
}

func TestState_SensitiveValuesNotRendered(t *testing.T) {
	st := form.NewState(form.Login)
	st.Bind(url.Values{"username": {"alice"}, "password": {"hunter2"}})

	assert.Equal(t, "hunter2", st.Values["password"])
	assert.Empty(t, st.Value("password"))
}
