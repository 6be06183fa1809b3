package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payscan/payscan/internal/client/models"
)

func TestRender_EmptyState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, BuildView(nil, nil, models.Filter{}, nil)))

	out := buf.String()
	assert.Contains(t, out, "Payments: 0   Total: ₹0   Completed: 0   Sports: 0")
	assert.Contains(t, out, EmptyStateText)
	assert.NotContains(t, out, "TRANSACTION")
}

func TestRender_Table(t *testing.T) {
	sports := []models.Sport{{ID: 1, Name: "Cricket", Icon: "🏏"}, {ID: 2, Name: "Chess"}}
	list := []models.Payment{
		{ID: 1, TransactionID: models.Ptr("T1"), Amount: models.Ptr(1234.0), Status: models.Ptr("Payment Success")},
		{ID: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, BuildView(list, sports, models.Filter{SportID: models.Ptr(int64(1)), Search: "t1"}, nil)))

	out := buf.String()
	assert.Contains(t, out, "Sports: [🏏 Cricket]  Chess")
	assert.Contains(t, out, "Filters: sport=🏏 Cricket  status=All Statuses  search=t1")
	assert.Contains(t, out, "ID  TRANSACTION")
	assert.Contains(t, out, "₹1,234")
	assert.Contains(t, out, "✔ Payment Success")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "2 "), last)
	assert.Contains(t, last, "• —")
}

func TestRenderDetail(t *testing.T) {
	var buf bytes.Buffer
	d := BuildDetail(models.Payment{ID: 4, Status: models.Ptr("Pending"), RawOCRText: models.Ptr("hello"), ScreenshotPath: "s.png"},
		func(p string) string { return "http://h/uploads/" + p })
	require.NoError(t, RenderDetail(&buf, d))

	out := buf.String()
	assert.Contains(t, out, "payment 4")
	assert.Contains(t, out, "… Pending")
	assert.Contains(t, out, "http://h/uploads/s.png")
	assert.Contains(t, out, "📝 Raw OCR Text\nhello")
}

func TestExportPDF(t *testing.T) {
	list := []models.Payment{
		{ID: 1, TransactionID: models.Ptr("T1"), Amount: models.Ptr(1234.0), Status: models.Ptr("Payment Success"),
			Sport: &models.Sport{Name: "Cricket", Icon: "🏏"}},
		{ID: 2},
	}
	var buf bytes.Buffer
	err := ExportPDF(&buf, BuildView(list, nil, models.Filter{}, nil), time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, ExportPDF(&buf, BuildView(nil, nil, models.Filter{}, nil), time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFText(t *testing.T) {
	assert.Equal(t, "Rs. 1,234", pdfText("₹1,234"))
	assert.Equal(t, "Cricket", pdfText("🏏 Cricket"))
	assert.Equal(t, "—", pdfText("—"))
	assert.Equal(t, "café", pdfText("café"))
}
