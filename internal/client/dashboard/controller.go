// Package dashboard owns the payments screen: the fetched list, the sports
// list and the filter criteria, and the views derived from them.
//
// Every criteria change re-fetches the list from the server and rebuilds all
// views from the fresh result. When list requests overlap, only the most
// recently issued one is applied; older responses are dropped on arrival.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/payscan/payscan/internal/client/client"
	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
	"github.com/payscan/payscan/internal/logging"
	"github.com/payscan/payscan/internal/timex"
)

const (
	DefaultSearchDelay = 400 * time.Millisecond

	MsgLoadFailed = "Failed to load payments"
	MsgDeleted    = "Payment deleted"
	MsgUpdated    = "Payment updated"
)

var ErrNothingToUpdate = errors.New("nothing to update")

type Backend interface {
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	ListPayments(ctx context.Context, f models.Filter) ([]models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id int64, upd models.PaymentUpdate) (*models.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
	ListSports(ctx context.Context) ([]models.Sport, error)
	ScreenshotURL(path string) string
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Options struct {
	// SearchDelay is the quiet period before typed search text is applied.
	SearchDelay time.Duration
	Scheduler   timex.Scheduler
	Logger      logging.Logger
	// OnRender receives every freshly built view.
	OnRender func(View)
	// OnLogout runs after the session was cleared, by the user or because
	// the server rejected it.
	OnLogout func(ctx context.Context)
}

type Controller struct {
	backend  Backend
	notes    Notifier
	log      logging.Logger
	search   *timex.Debouncer
	onRender func(View)
	onLogout func(ctx context.Context)

	mu       sync.Mutex
	payments []models.Payment
	sports   []models.Sport
	criteria models.Filter
	user     *models.User
	issued   uint64
}

func New(backend Backend, notes Notifier, opts Options) *Controller {
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timex.RealScheduler()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Controller{
		backend:  backend,
		notes:    notes,
		log:      opts.Logger,
		search:   timex.NewDebouncerWithScheduler(opts.SearchDelay, opts.Scheduler),
		onRender: opts.OnRender,
		onLogout: opts.OnLogout,
	}
}

// Init loads sports and payments side by side and renders once both are
// in. A failed sports load is logged and leaves the sidebar empty; a failed
// payments load is returned.
func (c *Controller) Init(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		c.loadSports(ctx)
		return nil
	})
	g.Go(func() error {
		_, _, err := c.fetch(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	c.emit(c.View())
	return nil
}

// ReloadSports fetches the sports list again and re-renders.
func (c *Controller) ReloadSports(ctx context.Context) {
	c.loadSports(ctx)
	c.emit(c.View())
}

func (c *Controller) loadSports(ctx context.Context) {
	list, err := c.backend.ListSports(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to load sports", "error", err)
		return
	}
	c.mu.Lock()
	c.sports = list
	c.mu.Unlock()
}

// VerifySession asks the server who we are. A rejected session logs the
// user out.
func (c *Controller) VerifySession(ctx context.Context) (*models.User, error) {
	u, err := c.backend.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			c.log.Info(ctx, "session rejected by server")
			c.ForceLogout(ctx)
		}
		return nil, err
	}
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
	return u, nil
}

// User is the profile confirmed by the last VerifySession.
func (c *Controller) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// ForceLogout clears the session and the screen state and hands control back
// to the caller. A list response still in flight is dropped on arrival.
func (c *Controller) ForceLogout(ctx context.Context) {
	c.search.Cancel()
	if err := c.backend.Logout(ctx); err != nil {
		c.log.Error(ctx, "failed to clear session", "error", err)
	}
	c.mu.Lock()
	c.user = nil
	c.criteria = models.Filter{}
	c.payments = nil
	c.issued++
	c.mu.Unlock()
	if c.onLogout != nil {
		c.onLogout(ctx)
	}
}

// Refresh fetches the list for the current criteria and rebuilds the views.
// A response that arrives after a newer request was issued is discarded.
func (c *Controller) Refresh(ctx context.Context) error {
	v, applied, err := c.fetch(ctx)
	if applied {
		c.emit(v)
	}
	return err
}

// fetch issues one list request and applies its result unless a newer
// request was issued meanwhile.
func (c *Controller) fetch(ctx context.Context) (View, bool, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	f := c.criteria.Clone()
	c.mu.Unlock()

	list, err := c.backend.ListPayments(ctx, f)

	c.mu.Lock()
	if seq != c.issued {
		latest := c.issued
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping stale payments response", "seq", seq, "latest", latest)
		return View{}, false, nil
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn(ctx, "failed to load payments", "error", err)
		c.notes.Error(MsgLoadFailed)
		if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrUnauthorized) {
			c.ForceLogout(ctx)
		}
		return View{}, false, err
	}
	c.payments = list
	v := c.viewLocked()
	c.mu.Unlock()

	c.log.Debug(ctx, "payments loaded", "count", len(list), "seq", seq)
	return v, true, nil
}

func (c *Controller) emit(v View) {
	if c.onRender != nil {
		c.onRender(v)
	}
}

func (c *Controller) viewLocked() View {
	return BuildView(c.payments, c.sports, c.criteria, c.backend.ScreenshotURL)
}

// View rebuilds the views from the current state without fetching.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) Criteria() models.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria.Clone()
}

func (c *Controller) Sports() []models.Sport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Sport(nil), c.sports...)
}

func (c *Controller) Payments() []models.Payment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Payment(nil), c.payments...)
}

// ToggleSidebarSport filters by id, or clears the sport filter when id is
// already the active one.
func (c *Controller) ToggleSidebarSport(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.criteria.SportID != nil && *c.criteria.SportID == id {
		c.criteria.SportID = nil
	} else {
		c.criteria.SportID = models.Ptr(id)
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SelectSport applies a sport selector value; "" means all sports.
func (c *Controller) SelectSport(ctx context.Context, value string) error {
	var id *int64
	if value = strings.TrimSpace(value); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %q", common.ErrInvalidSportID, value)
		}
		id = &n
	}
	c.mu.Lock()
	c.criteria.SportID = id
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SelectStatus applies a status selector value; "" means any status.
func (c *Controller) SelectStatus(ctx context.Context, value string) error {
	c.mu.Lock()
	c.criteria.Status = strings.TrimSpace(value)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// TypeSearch records keystrokes in the search box. The text is applied and
// fetched only once input has been quiet for the search delay; each call
// restarts the wait and replaces the pending text.
func (c *Controller) TypeSearch(ctx context.Context, text string) {
	c.search.Trigger(func() {
		c.mu.Lock()
		c.criteria.Search = strings.TrimSpace(text)
		c.mu.Unlock()
		_ = c.Refresh(ctx)
	})
}

// SearchPending reports whether typed text is waiting for the delay.
func (c *Controller) SearchPending() bool {
	return c.search.Pending()
}

// ClearFilters drops every criterion, including pending search text.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.search.Cancel()
	c.mu.Lock()
	c.criteria = models.Filter{}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.backend.DeletePayment(ctx, id); err != nil {
		c.notes.Error(err.Error())
		return err
	}
	c.notes.Success(MsgDeleted)
	return c.Refresh(ctx)
}

func (c *Controller) Update(ctx context.Context, id int64, upd models.PaymentUpdate) (*models.Payment, error) {
	if upd.IsEmpty() {
		return nil, ErrNothingToUpdate
	}
	p, err := c.backend.UpdatePayment(ctx, id, upd)
	if err != nil {
		c.notes.Error(err.Error())
		return nil, err
	}
	c.notes.Success(MsgUpdated)
	return p, c.Refresh(ctx)
}

// Detail fetches one record and lays it out.
func (c *Controller) Detail(ctx context.Context, id int64) (Detail, error) {
	p, err := c.backend.GetPayment(ctx, id)
	if err != nil {
		c.notes.Error(err.Error())
		return Detail{}, err
	}
	return BuildDetail(*p, c.backend.ScreenshotURL), nil
}

// Screenshot returns where the screenshot of a listed payment can be
// fetched and the file name it was stored under.
func (c *Controller) Screenshot(id int64) (url, name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.payments {
		if p.ID == id {
			return c.backend.ScreenshotURL(p.ScreenshotPath), p.ScreenshotPath, nil
		}
	}
	return "", "", fmt.Errorf("payment %d: %w", id, client.ErrNotFound)
}

// Close cancels pending search input.
func (c *Controller) Close() {
	c.search.Cancel()
}
