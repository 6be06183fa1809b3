package client

import (
	"context"

	"github.com/payscan/payscan/internal/client/models"
)

// UploadRequest is one screenshot to submit for extraction.
type UploadRequest struct {
	FileName    string
	ContentType string
	Content     []byte
	SportID     *int64
}

type Client interface {
	Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error)
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error

	UploadPayment(ctx context.Context, req UploadRequest) (*models.Payment, error)
	ListPayments(ctx context.Context, f models.Filter) ([]models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id int64, upd models.PaymentUpdate) (*models.Payment, error)
	DeletePayment(ctx context.Context, id int64) error

	ListSports(ctx context.Context) ([]models.Sport, error)
	CreateSport(ctx context.Context, s models.SportCreate) (*models.Sport, error)

	ScreenshotURL(path string) string
}
