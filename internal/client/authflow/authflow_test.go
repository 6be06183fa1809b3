package authflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
)

type fakeBackend struct {
	ctrl *Controller

	loginCalls    int
	registerCalls int
	lastUsername  string
	lastEmail     string
	err           error

	// snapshot of the view taken while the call is in flight
	during View
}

func (f *fakeBackend) Login(_ context.Context, username, _ string) (*models.AuthResponse, error) {
	f.loginCalls++
	f.lastUsername = username
	f.during = f.ctrl.View()
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuthResponse{AccessToken: "tok", User: models.User{Username: username}}, nil
}

func (f *fakeBackend) Register(_ context.Context, username, email, _ string) (*models.AuthResponse, error) {
	f.registerCalls++
	f.lastUsername, f.lastEmail = username, email
	f.during = f.ctrl.View()
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuthResponse{AccessToken: "tok", User: models.User{Username: username}}, nil
}

type fakeSession bool

func (s fakeSession) IsAuthenticated(context.Context) bool { return bool(s) }

func newController(t *testing.T, authed bool) (*Controller, *fakeBackend, *int) {
	t.Helper()
	fb := &fakeBackend{}
	redirects := 0
	c := New(fb, fakeSession(authed), func(context.Context) { redirects++ }, nil)
	fb.ctrl = c
	return c, fb, &redirects
}

func TestInit_RedirectsWhenSignedIn(t *testing.T) {
	c, _, redirects := newController(t, true)
	assert.True(t, c.Init(context.Background()))
	assert.Equal(t, 1, *redirects)

	c2, _, redirects2 := newController(t, false)
	assert.False(t, c2.Init(context.Background()))
	assert.Zero(t, *redirects2)
}

func TestToggleForms(t *testing.T) {
	c, _, _ := newController(t, false)
	assert.Equal(t, ModeLogin, c.View().Mode)

	c.ShowRegister()
	assert.Equal(t, ModeRegister, c.View().Mode)
	assert.Equal(t, LabelCreateAccount, c.View().Current().Button.Label)

	c.ShowLogin()
	assert.Equal(t, ModeLogin, c.View().Mode)
	assert.Equal(t, LabelSignIn, c.View().Current().Button.Label)
}

func TestSubmitLogin_Success(t *testing.T) {
	c, fb, redirects := newController(t, false)

	require.NoError(t, c.SubmitLogin(context.Background(), "  alice ", "secret1"))
	assert.Equal(t, "alice", fb.lastUsername)
	assert.Equal(t, 1, *redirects)

	assert.Equal(t, Button{Label: LabelSigningIn, Disabled: true}, fb.during.Login.Button)
	assert.Equal(t, Button{Label: LabelSignIn}, c.View().Login.Button)
	assert.Empty(t, c.View().Login.Error)
}

func TestSubmitLogin_FailureShowsInlineAndRestoresButton(t *testing.T) {
	c, fb, redirects := newController(t, false)
	fb.err = errors.New("Invalid username or password")

	err := c.SubmitLogin(context.Background(), "alice", "nope")
	require.Error(t, err)
	assert.Zero(t, *redirects)

	v := c.View()
	assert.Equal(t, "Invalid username or password", v.Login.Error)
	assert.Equal(t, Button{Label: LabelSignIn}, v.Login.Button)

	// The next attempt starts with a clean error.
	fb.err = nil
	require.NoError(t, c.SubmitLogin(context.Background(), "alice", "secret1"))
	assert.Empty(t, fb.during.Login.Error)
	assert.Empty(t, c.View().Login.Error)
}

func TestSubmitRegister_ValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name string
		form RegisterForm
		want error
	}{
		{"mismatch", RegisterForm{Username: "bob", Email: "b@x.org", Password: "secret1", Confirm: "secret2"}, common.ErrPasswordMismatch},
		{"too short", RegisterForm{Username: "bob", Email: "b@x.org", Password: "abc", Confirm: "abc"}, common.ErrPasswordTooShort},
		{"mismatch wins over length", RegisterForm{Password: "a", Confirm: "b"}, common.ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fb, redirects := newController(t, false)
			c.ShowRegister()

			err := c.SubmitRegister(context.Background(), tt.form)
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, fb.registerCalls)
			assert.Zero(t, *redirects)

			v := c.View()
			assert.Equal(t, tt.want.Error(), v.Register.Error)
			assert.Equal(t, Button{Label: LabelCreateAccount}, v.Register.Button)
		})
	}
}

func TestSubmitRegister_Success(t *testing.T) {
	c, fb, redirects := newController(t, false)
	c.ShowRegister()

	err := c.SubmitRegister(context.Background(), RegisterForm{
		Username: " bob ", Email: " bob@example.org ", Password: "secret1", Confirm: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fb.registerCalls)
	assert.Equal(t, "bob", fb.lastUsername)
	assert.Equal(t, "bob@example.org", fb.lastEmail)
	assert.Equal(t, Button{Label: LabelCreating, Disabled: true}, fb.during.Register.Button)
	assert.Equal(t, 1, *redirects)
	assert.Equal(t, Button{Label: LabelCreateAccount}, c.View().Register.Button)
}

func TestSubmitRegister_BackendError(t *testing.T) {
	c, fb, _ := newController(t, false)
	fb.err = errors.New("Username already taken")

	err := c.SubmitRegister(context.Background(), RegisterForm{Username: "bob", Email: "b@x.org", Password: "secret1", Confirm: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Username already taken", c.View().Register.Error)
	// The login form is untouched.
	assert.Empty(t, c.View().Login.Error)
}
