package upload

import (
	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
	"github.com/payscan/payscan/internal/money"
)

// Field is one extracted value with its icon and label.
type Field struct {
	Icon  string
	Label string
	Value string
}

// Result is what the extraction produced for a single upload.
type Result struct {
	PaymentID  int64
	Screenshot string
	Fields     []Field
	RawOCRText string
}

// Value returns the value of the field with the given label.
func (r Result) Value(label string) string {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value
		}
	}
	return ""
}

func notDetected(s *string) string {
	return common.StringOr(s, common.NotDetected)
}

// BuildResult lays out an uploaded payment. Fields the extraction missed
// read "Not detected".
func BuildResult(p models.Payment, screenshotURL func(string) string) Result {
	amount := common.NotDetected
	if p.Amount != nil {
		amount = money.FormatINR(*p.Amount)
	}
	r := Result{
		PaymentID: p.ID,
		Fields: []Field{
			{"💰", "Amount", amount},
			{"🔢", "Transaction ID", notDetected(p.TransactionID)},
			{"📱", "UPI ID", notDetected(p.UPIID)},
			{"👤", "Receiver", notDetected(p.ReceiverName)},
			{"👤", "Sender", notDetected(p.SenderName)},
			{"📅", "Date", notDetected(p.Date)},
			{"✔️", "Status", notDetected(p.Status)},
		},
	}
	if p.RawOCRText != nil {
		r.RawOCRText = *p.RawOCRText
	}
	if screenshotURL != nil && p.ScreenshotPath != "" {
		r.Screenshot = screenshotURL(p.ScreenshotPath)
	}
	return r
}
