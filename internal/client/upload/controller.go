// Package upload drives the screenshot upload screen: pick a file, check it
// locally, preview it, send it for extraction and show what came back.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/payscan/payscan/internal/client/client"
	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
	"github.com/payscan/payscan/internal/logging"
)

const (
	LabelIdle   = "📤 Upload & Extract"
	LabelBusy   = "Uploading & Extracting..."
	SportPrompt = "Select a sport category"
	MsgUploaded = "Payment uploaded and details extracted!"

	sniffLen = 512
)

type Backend interface {
	UploadPayment(ctx context.Context, req client.UploadRequest) (*models.Payment, error)
	ListSports(ctx context.Context) ([]models.Sport, error)
	ScreenshotURL(path string) string
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Button struct {
	Label    string
	Disabled bool
}

// SportOption is one entry of the sport selector.
type SportOption struct {
	Value    string
	Label    string
	Selected bool
}

type selection struct {
	name        string
	contentType string
	content     []byte
	preview     Preview
}

type Controller struct {
	backend Backend
	notes   Notifier
	log     logging.Logger

	mu           sync.Mutex
	selected     *selection
	button       Button
	sports       []models.Sport
	sportsLoaded bool
	sportID      *int64
	result       *Result
}

func New(backend Backend, notes Notifier, log logging.Logger) *Controller {
	if log == nil {
		log = logging.NewNop()
	}
	return &Controller{
		backend: backend,
		notes:   notes,
		log:     log,
		button:  Button{Label: LabelIdle, Disabled: true},
	}
}

// LoadSports fills the sport selector once. Failures are logged and leave
// the selector with only the prompt.
func (c *Controller) LoadSports(ctx context.Context) {
	c.mu.Lock()
	loaded := c.sportsLoaded
	c.mu.Unlock()
	if loaded {
		return
	}

	list, err := c.backend.ListSports(ctx)
	if err != nil {
		c.log.Error(ctx, "failed to load sports", "error", err)
		return
	}
	c.mu.Lock()
	c.sports = list
	c.sportsLoaded = true
	c.mu.Unlock()
}

func (c *Controller) SportOptions() []SportOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := []SportOption{{Value: "", Label: SportPrompt, Selected: c.sportID == nil}}
	for _, s := range c.sports {
		opts = append(opts, SportOption{
			Value:    strconv.FormatInt(s.ID, 10),
			Label:    s.Label(),
			Selected: c.sportID != nil && *c.sportID == s.ID,
		})
	}
	return opts
}

// SelectSport sets the optional sport sent with the upload; "" clears it.
func (c *Controller) SelectSport(value string) error {
	var id *int64
	if value = strings.TrimSpace(value); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %q", common.ErrInvalidSportID, value)
		}
		id = &n
	}
	c.mu.Lock()
	c.sportID = id
	c.mu.Unlock()
	return nil
}

// Select checks the file at path and, when acceptable, makes it the
// current selection with a preview. A rejected file is reported through the
// notifier and leaves any earlier selection in place.
func (c *Controller) Select(ctx context.Context, path string) (err error) {
	defer func() {
		if err != nil {
			c.notes.Error(err.Error())
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", filepath.Base(path))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	head = head[:n]

	name := filepath.Base(path)
	contentType, err := Validate(name, info.Size(), head)
	if err != nil {
		c.log.Debug(ctx, "file rejected", "name", name, "size", info.Size(), "error", err)
		return err
	}

	rest, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1-int64(n)))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	content := append(head, rest...)
	// The file may have grown after Stat.
	if int64(len(content)) > MaxFileSize {
		return common.ErrFileTooLarge
	}

	c.setSelection(name, contentType, content)
	return nil
}

// SelectBytes is Select for content that is already in memory.
func (c *Controller) SelectBytes(name string, content []byte) error {
	head := content
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	contentType, err := Validate(name, int64(len(content)), head)
	if err != nil {
		c.notes.Error(err.Error())
		return err
	}
	c.setSelection(name, contentType, content)
	return nil
}

func (c *Controller) setSelection(name, contentType string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &selection{
		name:        name,
		contentType: contentType,
		content:     content,
		preview:     buildPreview(name, contentType, content),
	}
	if c.button.Label == LabelIdle {
		c.button.Disabled = false
	}
}

// Preview returns the preview of the current selection.
func (c *Controller) Preview() (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return Preview{}, false
	}
	return c.selected.preview, true
}

func (c *Controller) Button() Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.button
}

// Result is the last successful extraction, if any.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Submit sends the selected file. On success the selection and preview are
// cleared and the extraction result is kept for display. The button is
// re-enabled whatever happens.
func (c *Controller) Submit(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	sel := c.selected
	var sportID *int64
	if c.sportID != nil {
		sportID = models.Ptr(*c.sportID)
	}
	if sel == nil {
		c.mu.Unlock()
		c.notes.Error(common.ErrNoFileSelected.Error())
		return nil, common.ErrNoFileSelected
	}
	c.button = Button{Label: LabelBusy, Disabled: true}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.button = Button{Label: LabelIdle}
		c.mu.Unlock()
	}()

	p, err := c.backend.UploadPayment(ctx, client.UploadRequest{
		FileName:    sel.name,
		ContentType: sel.contentType,
		Content:     sel.content,
		SportID:     sportID,
	})
	if err != nil {
		c.log.Warn(ctx, "upload failed", "name", sel.name, "error", err)
		c.notes.Error(err.Error())
		return nil, err
	}

	res := BuildResult(*p, c.backend.ScreenshotURL)
	c.mu.Lock()
	c.result = &res
	if c.selected == sel {
		c.selected = nil
	}
	c.mu.Unlock()

	c.log.Info(ctx, "payment uploaded", "id", p.ID, "name", sel.name)
	c.notes.Success(MsgUploaded)
	return &res, nil
}

// Reset drops the selection and preview.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	if c.button.Label == LabelIdle {
		c.button.Disabled = true
	}
}
