package cli

import (
	"context"
	"fmt"

	"github.com/payscan/payscan/internal/client/upload"
)

// Upload validates and previews a screenshot file, submits it for
// extraction and prints what the server read from it. The optional second
// argument files the payment under a sport.
func (a *App) Upload(ctx context.Context, args []string) error {
	a.upload.LoadSports(ctx)

	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: upload <path> [sport_id]")
		upload.RenderSportOptions(a.out, a.upload.SportOptions())
		return errUsage
	}

	sport := ""
	if len(args) > 1 {
		sport = args[1]
	}
	if err := a.upload.SelectSport(sport); err != nil {
		fmt.Fprintln(a.out, "❌ "+err.Error())
		return err
	}

	if err := a.upload.Select(ctx, args[0]); err != nil {
		return err
	}
	if p, ok := a.upload.Preview(); ok {
		upload.RenderPreview(a.out, p)
	}

	fmt.Fprintln(a.out, upload.LabelBusy)
	res, err := a.upload.Submit(ctx)
	if err != nil {
		return err
	}
	if err := upload.RenderResult(a.out, *res); err != nil {
		return err
	}
	return a.dash.Refresh(ctx)
}
