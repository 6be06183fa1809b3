package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/payscan/payscan/internal/client/models"
)

// Sports lists the categories known to the dashboard.
func (a *App) Sports(context.Context) error {
	sports := a.dash.Sports()
	if len(sports) == 0 {
		fmt.Fprintln(a.out, "No sports yet. Use 'addsport' to create one.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPORT\tDESCRIPTION")
	for _, s := range sports {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Label(), s.Description)
	}
	return tw.Flush()
}

// AddSport creates a sport category and reloads the sidebar.
func (a *App) AddSport(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Sport name", a.out)
	if err != nil {
		return err
	}
	icon, err := getSimpleText(a.reader, "Icon (emoji, optional)", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	s, err := a.api.CreateSport(ctx, models.SportCreate{Name: name, Icon: icon, Description: desc})
	if err != nil {
		a.notes.Error(err.Error())
		return err
	}
	a.notes.Success("Sport created: " + s.Label())
	a.dash.ReloadSports(ctx)
	return nil
}
