package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/payscan/payscan/internal/client/authflow"
	"github.com/payscan/payscan/internal/client/client"
	"github.com/payscan/payscan/internal/client/config"
	"github.com/payscan/payscan/internal/client/dashboard"
	"github.com/payscan/payscan/internal/client/notify"
	"github.com/payscan/payscan/internal/client/session"
	"github.com/payscan/payscan/internal/client/upload"
	"github.com/payscan/payscan/internal/logging"
	"github.com/payscan/payscan/internal/timex"
)

type App struct {
	config *config.Config
	db     *sql.DB
	store  *session.Store
	api    client.Client
	http   *http.Client
	log    logging.Logger

	notes  *notify.Notifier
	auth   *authflow.Controller
	dash   *dashboard.Controller
	upload *upload.Controller

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

// lockedWriter serializes writes from the REPL, debounced searches and
// notification timers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.SessionDB)
	if err != nil {
		log.Error(ctx, "error initializing session database", "path", c.SessionDB, "error", err)
		return nil, err
	}

	store := session.NewStore(db)
	api, err := client.NewHTTPClient(c.ServerAddr, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "api")))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	deps := appDeps{
		db:        db,
		store:     store,
		api:       api,
		http:      &http.Client{Timeout: c.RequestTimeout},
		log:       log,
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		scheduler: timex.RealScheduler(),
	}
	return newApp(c, deps), nil
}

type appDeps struct {
	db        *sql.DB
	store     *session.Store
	api       client.Client
	http      *http.Client
	log       logging.Logger
	in        *bufio.Reader
	out       io.Writer
	scheduler timex.Scheduler
}

func newApp(c *config.Config, d appDeps) *App {
	a := &App{
		config: c,
		db:     d.db,
		store:  d.store,
		api:    d.api,
		http:   d.http,
		log:    d.log,
		reader: d.in,
		out:    &lockedWriter{w: d.out},
		now:    time.Now,
	}

	a.notes = notify.New(a.out, c.NotificationTTL, notify.WithScheduler(d.scheduler))
	a.auth = authflow.New(d.api, d.store, a.enterDashboard, d.log.With("screen", "auth"))
	a.dash = dashboard.New(d.api, a.notes, dashboard.Options{
		SearchDelay: c.SearchDebounce,
		Scheduler:   d.scheduler,
		Logger:      d.log.With("screen", "dashboard"),
		OnRender:    a.render,
		OnLogout:    a.loggedOut,
	})
	a.upload = upload.New(d.api, a.notes, d.log.With("screen", "upload"))
	return a
}

// Run shows the login screen, or the dashboard when a session is stored,
// and then serves commands until the user quits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to payscan. Type 'help' for commands.")
	if !a.auth.Init(ctx) {
		fmt.Fprintln(a.out, "Please login or register.")
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) Close() {
	a.dash.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "close session database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated(context.Background())
}

func (a *App) status() string {
	sess, err := a.store.Load(context.Background())
	switch {
	case err != nil && a.isLoggedIn():
		return "(signed in)"
	case sess == nil:
		return "(guest)"
	case sess.User == nil:
		return "(signed in)"
	}
	return "(" + sess.User.Username + ")"
}

// enterDashboard is where a successful login or a stored session lands.
func (a *App) enterDashboard(ctx context.Context) {
	u, err := a.dash.VerifySession(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Username)
	case !a.isLoggedIn():
		// the session was rejected and already cleared
		return
	default:
		a.log.Warn(ctx, "could not verify session", "error", err)
	}

	if err := a.dash.Init(ctx); err != nil {
		a.log.Warn(ctx, "dashboard init failed", "error", err)
	}
}

func (a *App) render(v dashboard.View) {
	if err := dashboard.Render(a.out, v); err != nil {
		a.log.Warn(context.Background(), "render dashboard", "error", err)
	}
}

func (a *App) loggedOut(context.Context) {
	a.upload.Reset()
	a.auth.ShowLogin()
	fmt.Fprintln(a.out, "Signed out. Please login again.")
}

func (a *App) Notices(context.Context) error {
	active := a.notes.Active()
	if len(active) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}
	for _, n := range active {
		fmt.Fprintln(a.out, n.String())
	}
	return nil
}
