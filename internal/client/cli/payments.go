package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/payscan/payscan/internal/client/dashboard"
	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/filex"
	"github.com/payscan/payscan/internal/money"
	"github.com/payscan/payscan/internal/netx"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage: "+text)
	return errUsage
}

// parseID reads a positive record id from the first argument.
func (a *App) parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, a.usage(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(a.out, "Invalid id %q\n", args[0])
		return 0, a.usage(usage)
	}
	return id, nil
}

// List prints the dashboard from the last loaded page without fetching.
func (a *App) List(context.Context) error {
	return dashboard.Render(a.out, a.dash.View())
}

func (a *App) Refresh(ctx context.Context) error {
	return a.dash.Refresh(ctx)
}

// Sport toggles the sidebar filter for one sport.
func (a *App) Sport(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "sport <id>")
	if err != nil {
		return err
	}
	return a.dash.ToggleSidebarSport(ctx, id)
}

// SelectSport sets the sport dropdown; "all" clears it.
func (a *App) SelectSport(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("sportsel <id|all>")
	}
	value := args[0]
	if strings.EqualFold(value, "all") {
		value = ""
	}
	if err := a.dash.SelectSport(ctx, value); err != nil {
		fmt.Fprintln(a.out, "❌ "+err.Error())
		return err
	}
	return nil
}

// Status sets the status dropdown; "all" clears it.
func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("status <" + strings.Join(dashboard.StatusValues, "|") + "|all>")
	}
	value := strings.Join(args, " ")
	if strings.EqualFold(value, "all") {
		value = ""
	}
	return a.dash.SelectStatus(ctx, value)
}

// Search feeds text to the debounced search box. With no text the search
// criterion is cleared once the delay passes.
func (a *App) Search(ctx context.Context, args []string) error {
	a.dash.TypeSearch(ctx, strings.Join(args, " "))
	return nil
}

func (a *App) Filters(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		return a.dash.ClearFilters(ctx)
	}
	dashboard.RenderFilters(a.out, a.dash.View())
	if a.dash.SearchPending() {
		fmt.Fprintln(a.out, "(search pending)")
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "show <id>")
	if err != nil {
		return err
	}
	d, err := a.dash.Detail(ctx, id)
	if err != nil {
		return err
	}
	return dashboard.RenderDetail(a.out, d)
}

// Edit prompts for each editable field showing the current value. An empty
// answer keeps the field as it is.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "edit <id>")
	if err != nil {
		return err
	}
	p, err := a.api.GetPayment(ctx, id)
	if err != nil {
		a.notes.Error(err.Error())
		return err
	}

	var upd models.PaymentUpdate
	texts := []struct {
		label   string
		current *string
		target  **string
	}{
		{"Transaction ID", p.TransactionID, &upd.TransactionID},
		{"Sender", p.SenderName, &upd.SenderName},
		{"Receiver", p.ReceiverName, &upd.ReceiverName},
		{"UPI ID", p.UPIID, &upd.UPIID},
		{"Date", p.Date, &upd.Date},
		{"Status", p.Status, &upd.Status},
	}
	for _, f := range texts {
		v, err := a.ask(f.label, deref(f.current))
		if err != nil {
			return err
		}
		if v != "" && v != deref(f.current) {
			*f.target = models.Ptr(v)
		}
	}

	current := ""
	if p.Amount != nil {
		current = dashboard.DisplayAmount(p.Amount)
	}
	amount, err := a.ask("Amount", current)
	if err != nil {
		return err
	}
	if amount != "" {
		n, err := parseAmount(amount)
		if err != nil {
			fmt.Fprintf(a.out, "Invalid amount %q\n", amount)
			return errUsage
		}
		if p.Amount == nil || n != *p.Amount {
			upd.Amount = &n
		}
	}

	sport, err := a.ask("Sport ID", idText(p.SportID))
	if err != nil {
		return err
	}
	if sport != "" {
		n, err := strconv.ParseInt(sport, 10, 64)
		if err != nil || n <= 0 {
			fmt.Fprintf(a.out, "Invalid sport id %q\n", sport)
			return errUsage
		}
		upd.SportID = &n
	}

	if _, err := a.dash.Update(ctx, id, upd); err != nil {
		if errors.Is(err, dashboard.ErrNothingToUpdate) {
			fmt.Fprintln(a.out, "Nothing changed")
		}
		return err
	}
	return nil
}

// parseAmount accepts amounts the way they are displayed, with or without
// the rupee sign and digit grouping.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), money.RupeeSign))
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative amount %v", n)
	}
	return n, nil
}

func (a *App) ask(label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt += " [" + current + "]"
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	ok, err := GetConfirmation(a.reader, "Delete this payment record?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	return a.dash.Delete(ctx, id)
}

// Screenshot downloads the stored image of a listed payment into the
// download directory.
func (a *App) Screenshot(ctx context.Context, args []string) error {
	id, err := a.parseID(args, "screenshot <id>")
	if err != nil {
		return err
	}
	url, name, err := a.dash.Screenshot(id)
	if err != nil {
		a.notes.Error(fmt.Sprintf("Payment %d is not in the current list", id))
		return err
	}

	dst, err := a.downloadPath(path.Base(name))
	if err != nil {
		a.notes.Error(err.Error())
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		a.notes.Error(err.Error())
		return err
	}
	n, err := netx.Download(ctx, a.http, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		a.log.Warn(ctx, "screenshot download failed", "url", url, "error", err)
		a.notes.Error("Failed to download screenshot")
		return err
	}
	a.notes.Success(fmt.Sprintf("Saved %s (%d bytes)", dst, n))
	return nil
}

// Export writes the current dashboard to a PDF in the download directory.
func (a *App) Export(ctx context.Context, args []string) error {
	name := "payments-" + a.now().Format("20060102-150405") + ".pdf"
	if len(args) > 0 {
		name = args[0]
	}
	dst, err := a.downloadPath(name)
	if err != nil {
		a.notes.Error(err.Error())
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		a.notes.Error(err.Error())
		return err
	}
	err = dashboard.ExportPDF(f, a.dash.View(), a.now())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		a.log.Warn(ctx, "pdf export failed", "path", dst, "error", err)
		a.notes.Error("Export failed")
		return err
	}
	a.notes.Success("Exported " + dst)
	return nil
}

func (a *App) downloadPath(name string) (string, error) {
	dir, err := filex.EnsureDir(a.config.DownloadDir)
	if err != nil {
		return "", err
	}
	return filex.SafeJoin(dir, name)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func idText(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
