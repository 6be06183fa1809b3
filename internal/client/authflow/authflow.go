// Package authflow drives the sign-in screen: a login form and a register
// form, only one visible at a time.
package authflow

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
	"github.com/payscan/payscan/internal/logging"
)

const (
	LabelSignIn        = "Sign In"
	LabelSigningIn     = "Signing in..."
	LabelCreateAccount = "Create Account"
	LabelCreating      = "Creating account..."

	minPasswordLen = 6
)

type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Backend is the subset of the backend client the flow calls. Both methods
// persist the session on success.
type Backend interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error)
}

type SessionChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// Button is the submit control of a form.
type Button struct {
	Label    string
	Disabled bool
}

// Form is what one of the two forms currently shows.
type Form struct {
	Button Button
	Error  string
}

// View is a snapshot of the whole screen.
type View struct {
	Mode     Mode
	Login    Form
	Register Form
}

// Current returns the form that is visible.
func (v View) Current() Form {
	if v.Mode == ModeRegister {
		return v.Register
	}
	return v.Login
}

type RegisterForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

type Controller struct {
	backend  Backend
	session  SessionChecker
	redirect func(ctx context.Context)
	log      logging.Logger

	mu   sync.Mutex
	view View
}

// New returns a controller in login mode. redirect is called once the user
// is signed in, either already at Init or after a successful submit.
func New(backend Backend, session SessionChecker, redirect func(ctx context.Context), log logging.Logger) *Controller {
	if log == nil {
		log = logging.NewNop()
	}
	return &Controller{
		backend:  backend,
		session:  session,
		redirect: redirect,
		log:      log,
		view: View{
			Mode:     ModeLogin,
			Login:    Form{Button: Button{Label: LabelSignIn}},
			Register: Form{Button: Button{Label: LabelCreateAccount}},
		},
	}
}

// Init skips the forms entirely when a session already exists. It reports
// whether it redirected.
func (c *Controller) Init(ctx context.Context) bool {
	if c.session.IsAuthenticated(ctx) {
		c.redirect(ctx)
		return true
	}
	return false
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) ShowRegister() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Mode = ModeRegister
}

func (c *Controller) ShowLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Mode = ModeLogin
}

func (c *Controller) form(m Mode) *Form {
	if m == ModeRegister {
		return &c.view.Register
	}
	return &c.view.Login
}

func (c *Controller) begin(m Mode, busy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.form(m)
	f.Error = ""
	f.Button = Button{Label: busy, Disabled: true}
}

// finish restores the button and records err (if any) inline.
func (c *Controller) finish(m Mode, idle string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.form(m)
	f.Button = Button{Label: idle}
	if err != nil {
		f.Error = err.Error()
	}
}

// SubmitLogin signs in. On failure the error is also kept as the login
// form's inline message.
func (c *Controller) SubmitLogin(ctx context.Context, username, password string) (err error) {
	c.begin(ModeLogin, LabelSigningIn)
	defer func() { c.finish(ModeLogin, LabelSignIn, err) }()

	resp, err := c.backend.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		c.log.Debug(ctx, "login rejected", "error", err)
		return err
	}
	c.log.Info(ctx, "logged in", "user", resp.User.Username)
	c.redirect(ctx)
	return nil
}

// SubmitRegister validates the form locally, then creates the account.
// Local validation failures never reach the backend.
func (c *Controller) SubmitRegister(ctx context.Context, f RegisterForm) (err error) {
	c.begin(ModeRegister, LabelCreating)
	defer func() { c.finish(ModeRegister, LabelCreateAccount, err) }()

	if err := ValidateRegistration(f); err != nil {
		return err
	}

	resp, err := c.backend.Register(ctx, strings.TrimSpace(f.Username), strings.TrimSpace(f.Email), f.Password)
	if err != nil {
		c.log.Debug(ctx, "registration rejected", "error", err)
		return err
	}
	c.log.Info(ctx, "account created", "user", resp.User.Username)
	c.redirect(ctx)
	return nil
}

// ValidateRegistration checks the confirmation first, then the length.
func ValidateRegistration(f RegisterForm) error {
	if f.Password != f.Confirm {
		return common.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(f.Password) < minPasswordLen {
		return common.ErrPasswordTooShort
	}
	return nil
}
