package dashboard

import (
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
	"github.com/payscan/payscan/internal/money"
)

// Severity classifies a payment status for badge styling.
type Severity int

const (
	Neutral Severity = iota
	Positive
	Caution
	Negative
)

func (s Severity) String() string {
	switch s {
	case Positive:
		return "positive"
	case Caution:
		return "caution"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Class is the badge class the web dashboard used for the severity.
func (s Severity) Class() string {
	switch s {
	case Positive:
		return "badge-success"
	case Caution:
		return "badge-warning"
	case Negative:
		return "badge-danger"
	default:
		return "badge-info"
	}
}

// SeverityOf matches in priority order: success/completed, pending, fail.
func SeverityOf(status *string) Severity {
	if status == nil {
		return Neutral
	}
	s := strings.ToLower(*status)
	switch {
	case isCompleted(s):
		return Positive
	case strings.Contains(s, "pending"):
		return Caution
	case strings.Contains(s, "fail"):
		return Negative
	default:
		return Neutral
	}
}

func isCompleted(lower string) bool {
	return strings.Contains(lower, "success") || strings.Contains(lower, "completed")
}

const dateLayout = "02 Jan 2006"

// DisplayDate prefers the date read off the screenshot and falls back to
// when the record was created.
func DisplayDate(p models.Payment) string {
	if p.Date != nil && strings.TrimSpace(*p.Date) != "" {
		return *p.Date
	}
	if p.CreatedAt.IsZero() {
		return common.Placeholder
	}
	return p.CreatedAt.Format(dateLayout)
}

// DisplayAmount renders a present amount in rupees (₹0 included) and the
// placeholder otherwise.
func DisplayAmount(amount *float64) string {
	if amount == nil {
		return common.Placeholder
	}
	return money.FormatINR(*amount)
}

func sportLabel(p models.Payment) string {
	if p.Sport == nil {
		return common.Placeholder
	}
	return p.Sport.Label()
}

type Stats struct {
	Total       int
	TotalAmount decimal.Decimal
	Completed   int
	SportsUsed  int
}

// AmountText is the formatted total amount.
func (s Stats) AmountText() string {
	return money.FormatDecimal(s.TotalAmount)
}

// ComputeStats derives the headline numbers from the list as fetched.
func ComputeStats(list []models.Payment) Stats {
	st := Stats{Total: len(list), TotalAmount: decimal.Zero}
	sports := mapset.NewThreadUnsafeSet[int64]()
	for _, p := range list {
		st.TotalAmount = st.TotalAmount.Add(money.Sum(p.Amount))
		if p.Status != nil && isCompleted(strings.ToLower(*p.Status)) {
			st.Completed++
		}
		if p.SportID != nil {
			sports.Add(*p.SportID)
		}
	}
	st.SportsUsed = sports.Cardinality()
	return st
}

type Row struct {
	ID            int64
	Screenshot    string
	TransactionID string
	Amount        string
	Receiver      string
	Sport         string
	Date          string
	Status        string
	Severity      Severity
}

func BuildRow(p models.Payment, screenshotURL func(string) string) Row {
	r := Row{
		ID:            p.ID,
		TransactionID: common.StringOr(p.TransactionID, common.Placeholder),
		Amount:        DisplayAmount(p.Amount),
		Receiver:      common.StringOr(p.ReceiverName, common.Placeholder),
		Sport:         sportLabel(p),
		Date:          DisplayDate(p),
		Status:        common.StringOr(p.Status, common.Placeholder),
		Severity:      SeverityOf(p.Status),
	}
	if screenshotURL != nil && p.ScreenshotPath != "" {
		r.Screenshot = screenshotURL(p.ScreenshotPath)
	}
	return r
}

// Option is one entry of a selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// SidebarItem is one sport in the navigation list.
type SidebarItem struct {
	ID     int64
	Label  string
	Active bool
}

const AllSportsLabel = "All Sports"
const AllStatusesLabel = "All Statuses"

// StatusValues are the choices offered by the status selector.
var StatusValues = []string{"Success", "Completed", "Pending", "Failed"}

// View is everything the dashboard shows, derived from one fetched list,
// the sports list and the criteria that produced the list.
type View struct {
	Stats         Stats
	Rows          []Row
	Empty         bool
	Sidebar       []SidebarItem
	SportOptions  []Option
	StatusOptions []Option
	Search        string
	Criteria      models.Filter
}

// BuildView computes every derived view. The sidebar highlight and the
// selected sport option both come from criteria.SportID, so they cannot
// disagree.
func BuildView(list []models.Payment, sports []models.Sport, criteria models.Filter, screenshotURL func(string) string) View {
	v := View{
		Stats:    ComputeStats(list),
		Rows:     make([]Row, 0, len(list)),
		Empty:    len(list) == 0,
		Search:   criteria.Search,
		Criteria: criteria.Clone(),
	}
	for _, p := range list {
		v.Rows = append(v.Rows, BuildRow(p, screenshotURL))
	}

	selected := criteria.SportValue()
	v.SportOptions = append(v.SportOptions, Option{Value: "", Label: AllSportsLabel, Selected: selected == ""})
	for _, s := range sports {
		active := criteria.SportID != nil && *criteria.SportID == s.ID
		v.Sidebar = append(v.Sidebar, SidebarItem{ID: s.ID, Label: s.Label(), Active: active})
		v.SportOptions = append(v.SportOptions, Option{
			Value:    strconv.FormatInt(s.ID, 10),
			Label:    s.Label(),
			Selected: active,
		})
	}

	v.StatusOptions = append(v.StatusOptions, Option{Value: "", Label: AllStatusesLabel, Selected: criteria.Status == ""})
	for _, s := range StatusValues {
		v.StatusOptions = append(v.StatusOptions, Option{Value: s, Label: s, Selected: criteria.Status == s})
	}
	return v
}

// SelectedSport returns the value of the selected sport option.
func (v View) SelectedSport() string {
	for _, o := range v.SportOptions {
		if o.Selected {
			return o.Value
		}
	}
	return ""
}

// ActiveSidebar returns the highlighted sport id, if any.
func (v View) ActiveSidebar() (int64, bool) {
	for _, it := range v.Sidebar {
		if it.Active {
			return it.ID, true
		}
	}
	return 0, false
}

// Field is one labelled value of the detail view.
type Field struct {
	Label string
	Value string
}

type Detail struct {
	ID         int64
	Screenshot string
	Fields     []Field
	Severity   Severity
	RawOCRText string
}

// BuildDetail lays out the full record. Every absent field shows the
// placeholder.
func BuildDetail(p models.Payment, screenshotURL func(string) string) Detail {
	d := Detail{
		ID:       p.ID,
		Severity: SeverityOf(p.Status),
		Fields: []Field{
			{"Amount", DisplayAmount(p.Amount)},
			{"Transaction ID", common.StringOr(p.TransactionID, common.Placeholder)},
			{"UPI ID", common.StringOr(p.UPIID, common.Placeholder)},
			{"Receiver", common.StringOr(p.ReceiverName, common.Placeholder)},
			{"Sender", common.StringOr(p.SenderName, common.Placeholder)},
			{"Date", DisplayDate(p)},
			{"Status", common.StringOr(p.Status, common.Placeholder)},
			{"Sport", sportLabel(p)},
		},
	}
	if p.RawOCRText != nil {
		d.RawOCRText = *p.RawOCRText
	}
	if screenshotURL != nil && p.ScreenshotPath != "" {
		d.Screenshot = screenshotURL(p.ScreenshotPath)
	}
	return d
}

// Value returns the value of the field with the given label.
func (d Detail) Value(label string) string {
	for _, f := range d.Fields {
		if f.Label == label {
			return f.Value
		}
	}
	return ""
}
