package models

// Payment is one extracted screenshot record. Pointer fields are optional:
// nil means the OCR pass did not find the value.
type Payment struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	SportID        *int64    `json:"sport_id"`
	TransactionID  *string   `json:"transaction_id"`
	Amount         *float64  `json:"amount"`
	SenderName     *string   `json:"sender_name"`
	ReceiverName   *string   `json:"receiver_name"`
	Date           *string   `json:"date"`
	Status         *string   `json:"status"`
	UPIID          *string   `json:"upi_id"`
	ScreenshotPath string    `json:"screenshot_path"`
	RawOCRText     *string   `json:"raw_ocr_text"`
	CreatedAt      Timestamp `json:"created_at"`
	Sport          *Sport    `json:"sport"`
}

// PaymentUpdate is the partial body of PUT /payments/{id}. Nil fields are
// left untouched by the server.
type PaymentUpdate struct {
	SportID       *int64   `json:"sport_id,omitempty"`
	TransactionID *string  `json:"transaction_id,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	SenderName    *string  `json:"sender_name,omitempty"`
	ReceiverName  *string  `json:"receiver_name,omitempty"`
	Date          *string  `json:"date,omitempty"`
	Status        *string  `json:"status,omitempty"`
	UPIID         *string  `json:"upi_id,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u PaymentUpdate) IsEmpty() bool {
	return u.SportID == nil && u.TransactionID == nil && u.Amount == nil &&
		u.SenderName == nil && u.ReceiverName == nil && u.Date == nil &&
		u.Status == nil && u.UPIID == nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
