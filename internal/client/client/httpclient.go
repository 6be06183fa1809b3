package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
	"github.com/payscan/payscan/internal/logging"
)

const maxResponseBytes = 16 << 20

// SessionStore is the part of the session store the transport needs.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, u models.User) error
	Clear(ctx context.Context) error
}

// MsgServerUnavailable is shown when the backend could not be reached at all.
const MsgServerUnavailable = "Server unavailable"

// operation names a backend call and the message shown when the server
// gives no reason of its own.
type operation struct {
	name     string
	fallback string
}

var (
	opRegister    = operation{"register", "Registration failed"}
	opLogin       = operation{"login", "Login failed"}
	opMe          = operation{"me", "Session expired"}
	opUpload      = operation{"upload payment", "Upload failed"}
	opListPayment = operation{"list payments", "Failed to load payments"}
	opGetPayment  = operation{"get payment", "Payment not found"}
	opUpdate      = operation{"update payment", "Update failed"}
	opDelete      = operation{"delete payment", "Delete failed"}
	opListSports  = operation{"list sports", "Failed to load sports"}
	opCreateSport = operation{"create sport", "Failed to create sport"}
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests use the
// httptest server's client).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient builds a client for the server at baseURL
// ("http://127.0.0.1:8002"). API calls go to baseURL+"/api".
func NewHTTPClient(baseURL string, store SessionStore, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q: missing host", baseURL)
	}

	c := &HTTPClient{
		baseURL: u.String(),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		log:     logging.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ScreenshotURL is where the backend serves an uploaded screenshot.
func (c *HTTPClient) ScreenshotURL(path string) string {
	return c.baseURL + "/uploads/" + url.PathEscape(path)
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error) {
	body := models.RegisterRequest{Username: username, Email: email, Password: password}
	return c.authenticate(ctx, opRegister, "/auth/register", body)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	body := models.LoginRequest{Username: username, Password: password}
	return c.authenticate(ctx, opLogin, "/auth/login", body)
}

func (c *HTTPClient) authenticate(ctx context.Context, op operation, path string, body any) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, op, http.MethodPost, path, nil, body, false, &resp); err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.log.Info(ctx, "signed in", "user", resp.User.Username)
	return &resp, nil
}

// Me checks the current session with the server. Any non-success answer is
// reported as ErrSessionExpired.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	err := c.doJSON(ctx, opMe, http.MethodGet, "/auth/me", nil, nil, true, &u)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
			return nil, &APIError{
				Op:         opMe.name,
				StatusCode: apiErr.StatusCode,
				Message:    opMe.fallback,
				Err:        errors.Join(ErrSessionExpired, apiErr.Err),
			}
		}
		if errors.As(err, &apiErr) && errors.Is(err, ErrUnavailable) {
			apiErr.Message = MsgServerUnavailable
		}
		return nil, err
	}
	return &u, nil
}

// Logout forgets the local session. The backend keeps no session state, so
// there is nothing to call.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.store.Clear(ctx)
}

func (c *HTTPClient) UploadPayment(ctx context.Context, ur UploadRequest) (*models.Payment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, ur.FileName))
	ct := ur.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(ur.Content); err != nil {
		return nil, err
	}
	if ur.SportID != nil {
		if err := mw.WriteField("sport_id", strconv.FormatInt(*ur.SportID, 10)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var p models.Payment
	if err := c.do(ctx, opUpload, http.MethodPost, "/payments/upload", nil, &buf, mw.FormDataContentType(), true, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListPayments(ctx context.Context, f models.Filter) ([]models.Payment, error) {
	var list []models.Payment
	if err := c.doJSON(ctx, opListPayment, http.MethodGet, "/payments", f.Query(), nil, true, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Payment{}
	}
	return list, nil
}

func (c *HTTPClient) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	var p models.Payment
	if err := c.doJSON(ctx, opGetPayment, http.MethodGet, paymentPath(id), nil, nil, true, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdatePayment(ctx context.Context, id int64, upd models.PaymentUpdate) (*models.Payment, error) {
	var p models.Payment
	if err := c.doJSON(ctx, opUpdate, http.MethodPut, paymentPath(id), nil, upd, true, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePayment(ctx context.Context, id int64) error {
	return c.doJSON(ctx, opDelete, http.MethodDelete, paymentPath(id), nil, nil, true, nil)
}

func (c *HTTPClient) ListSports(ctx context.Context) ([]models.Sport, error) {
	var list []models.Sport
	if err := c.doJSON(ctx, opListSports, http.MethodGet, "/sports", nil, nil, true, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Sport{}
	}
	return list, nil
}

func (c *HTTPClient) CreateSport(ctx context.Context, s models.SportCreate) (*models.Sport, error) {
	var out models.Sport
	if err := c.doJSON(ctx, opCreateSport, http.MethodPost, "/sports", nil, s, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func paymentPath(id int64) string {
	return "/payments/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) doJSON(ctx context.Context, op operation, method, path string, query url.Values, in any, auth bool, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op.name, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, query, body, contentType, auth, out)
}

func (c *HTTPClient) do(ctx context.Context, op operation, method, path string, query url.Values, body io.Reader, contentType string, auth bool, out any) error {
	target := c.baseURL + "/api" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op.name, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	if auth {
		tok, err := c.store.Token(ctx)
		if err != nil {
			return fmt.Errorf("%s: read session: %w", op.name, err)
		}
		if tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "api request failed", "op", op.name, "request_id", reqID, "error", err)
		return &APIError{Op: op.name, Message: op.fallback, Err: errors.Join(ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Op: op.name, StatusCode: resp.StatusCode, Message: op.fallback, Err: errors.Join(ErrUnavailable, err)}
	}

	c.log.Debug(ctx, "api request",
		"op", op.name, "method", method, "path", path,
		"status", resp.StatusCode, "request_id", reqID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := detailMessage(data)
		if msg == "" {
			msg = op.fallback
		}
		return &APIError{Op: op.name, StatusCode: resp.StatusCode, Message: msg, Err: statusSentinel(resp.StatusCode)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op.name, err)
	}
	return nil
}

func statusSentinel(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}

// detailMessage pulls a human-readable reason out of an error body. The
// backend answers {"detail": "..."} or, for validation failures,
// {"detail": [{"msg": "..."}, ...]}.
func detailMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(payload.Error)
}
