package dashboard

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
)

func ts(s string) models.Timestamp {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return models.Timestamp{Time: t}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		status *string
		want   Severity
		class  string
	}{
		{models.Ptr("Payment Success"), Positive, "badge-success"},
		{models.Ptr("COMPLETED"), Positive, "badge-success"},
		{models.Ptr("Pending Review"), Caution, "badge-warning"},
		{models.Ptr("Failed"), Negative, "badge-danger"},
		{models.Ptr("Success after pending"), Positive, "badge-success"},
		{models.Ptr("Refunded"), Neutral, "badge-info"},
		{models.Ptr(""), Neutral, "badge-info"},
		{nil, Neutral, "badge-info"},
	}
	for _, tt := range tests {
		got := SeverityOf(tt.status)
		assert.Equal(t, tt.want, got, common.StringOr(tt.status, "<nil>"))
		assert.Equal(t, tt.class, got.Class())
	}
}

func TestComputeStats(t *testing.T) {
	list := []models.Payment{
		{ID: 1, Amount: models.Ptr(1000.0), Status: models.Ptr("Payment Success"), SportID: models.Ptr(int64(1))},
		{ID: 2, Amount: models.Ptr(250.5), Status: models.Ptr("completed"), SportID: models.Ptr(int64(1))},
		{ID: 3, Status: models.Ptr("Pending"), SportID: models.Ptr(int64(2))},
		{ID: 4, Amount: models.Ptr(0.0)},
	}

	want := Stats{Total: 4, TotalAmount: decimal.RequireFromString("1250.5"), Completed: 2, SportsUsed: 2}
	if diff := cmp.Diff(want, ComputeStats(list)); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "₹1,250.5", ComputeStats(list).AmountText())

	empty := ComputeStats(nil)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.TotalAmount.IsZero())
	assert.Equal(t, "₹0", empty.AmountText())
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "12/03/2024", DisplayDate(models.Payment{Date: models.Ptr("12/03/2024"), CreatedAt: ts("2024-03-15T10:00:00Z")}))
	assert.Equal(t, "15 Mar 2024", DisplayDate(models.Payment{CreatedAt: ts("2024-03-15T10:00:00Z")}))
	assert.Equal(t, "15 Mar 2024", DisplayDate(models.Payment{Date: models.Ptr("  "), CreatedAt: ts("2024-03-15T10:00:00Z")}))
	assert.Equal(t, common.Placeholder, DisplayDate(models.Payment{}))
}

func TestDisplayAmount(t *testing.T) {
	assert.Equal(t, common.Placeholder, DisplayAmount(nil))
	assert.Equal(t, "₹0", DisplayAmount(models.Ptr(0.0)))
	assert.Equal(t, "₹1,23,456.5", DisplayAmount(models.Ptr(123456.5)))
}

func TestBuildRow_Placeholders(t *testing.T) {
	r := BuildRow(models.Payment{ID: 7}, nil)
	assert.Equal(t, Row{
		ID:            7,
		TransactionID: common.Placeholder,
		Amount:        common.Placeholder,
		Receiver:      common.Placeholder,
		Sport:         common.Placeholder,
		Date:          common.Placeholder,
		Status:        common.Placeholder,
		Severity:      Neutral,
	}, r)
}

func TestBuildRow_Full(t *testing.T) {
	url := func(p string) string { return "http://h/uploads/" + p }
	p := models.Payment{
		ID:             3,
		TransactionID:  models.Ptr("T123"),
		Amount:         models.Ptr(500.0),
		ReceiverName:   models.Ptr("Ravi"),
		Status:         models.Ptr("Payment Success"),
		Sport:          &models.Sport{ID: 1, Name: "Cricket", Icon: "🏏"},
		ScreenshotPath: "a.png",
		CreatedAt:      ts("2024-01-02T00:00:00Z"),
	}
	r := BuildRow(p, url)
	assert.Equal(t, "http://h/uploads/a.png", r.Screenshot)
	assert.Equal(t, "₹500", r.Amount)
	assert.Equal(t, "🏏 Cricket", r.Sport)
	assert.Equal(t, "02 Jan 2024", r.Date)
	assert.Equal(t, Positive, r.Severity)
}

func TestBuildView_SidebarAndDropdownAgree(t *testing.T) {
	sports := []models.Sport{{ID: 1, Name: "Cricket", Icon: "🏏"}, {ID: 2, Name: "Football", Icon: "⚽"}}

	v := BuildView(nil, sports, models.Filter{SportID: models.Ptr(int64(2))}, nil)
	id, ok := v.ActiveSidebar()
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, "2", v.SelectedSport())
	assert.True(t, v.Empty)
	assert.NotNil(t, v.Rows)

	v = BuildView(nil, sports, models.Filter{}, nil)
	_, ok = v.ActiveSidebar()
	assert.False(t, ok)
	assert.Equal(t, "", v.SelectedSport())
	assert.Equal(t, AllSportsLabel, v.SportOptions[0].Label)
	require.Len(t, v.SportOptions, 3)
	assert.Equal(t, "⚽ Football", v.SportOptions[2].Label)
}

func TestBuildView_StatusOptions(t *testing.T) {
	v := BuildView(nil, nil, models.Filter{Status: "Pending"}, nil)
	require.Len(t, v.StatusOptions, len(StatusValues)+1)
	assert.Equal(t, "Pending", selectedLabel(v.StatusOptions))

	v = BuildView(nil, nil, models.Filter{}, nil)
	assert.Equal(t, AllStatusesLabel, selectedLabel(v.StatusOptions))
}

func TestBuildDetail_AllAbsent(t *testing.T) {
	d := BuildDetail(models.Payment{ID: 9}, nil)

	require.Len(t, d.Fields, 8)
	for _, f := range d.Fields {
		assert.Equal(t, common.Placeholder, f.Value, f.Label)
		assert.NotEmpty(t, f.Value, f.Label)
	}
	assert.Empty(t, d.RawOCRText)
	assert.Equal(t, Neutral, d.Severity)
}

func TestBuildDetail_Present(t *testing.T) {
	p := models.Payment{
		ID:         1,
		Amount:     models.Ptr(1500.0),
		UPIID:      models.Ptr("ravi@okaxis"),
		SenderName: models.Ptr("Mina"),
		Date:       models.Ptr("01 Feb 2024"),
		Status:     models.Ptr("Failed"),
		RawOCRText: models.Ptr("raw text"),
		Sport:      &models.Sport{Name: "Chess"},
	}
	d := BuildDetail(p, func(s string) string { return s })
	assert.Equal(t, "₹1,500", d.Value("Amount"))
	assert.Equal(t, "ravi@okaxis", d.Value("UPI ID"))
	assert.Equal(t, "Mina", d.Value("Sender"))
	assert.Equal(t, common.Placeholder, d.Value("Receiver"))
	assert.Equal(t, "Chess", d.Value("Sport"))
	assert.Equal(t, "01 Feb 2024", d.Value("Date"))
	assert.Equal(t, Negative, d.Severity)
	assert.Equal(t, "raw text", d.RawOCRText)
	assert.Equal(t, "", d.Value("Nope"))
}
