// Package testbackend runs an in-process stand-in for the payment OCR
// backend. It implements every endpoint the client consumes, issues real
// HS256 tokens, and records the requests it sees, so client, controller and
// CLI tests can run against HTTP without the real service.
package testbackend

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/payscan/payscan/internal/client/models"
	"github.com/payscan/payscan/internal/common"
)

const maxUploadBytes = 10 << 20

var allowedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".bmp": {}, ".tiff": {}, ".webp": {},
}

// Request is one recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

type account struct {
	user     models.User
	password string
}

type failure struct {
	status int
	body   string
}

// Extractor stands in for the OCR pass: it fills the extracted fields of a
// fresh payment from the uploaded file.
type Extractor func(filename string, content []byte) models.Payment

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	secret      []byte
	accounts    map[string]*account
	nextUserID  int64
	sports      []models.Sport
	nextSportID int64
	payments    []models.Payment
	nextPayID   int64
	uploads     map[string][]byte
	requests    []Request
	failures    map[string]failure
	extract     Extractor
	clock       func() time.Time
}

// New starts a server and closes it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte("test-secret-" + uuid.NewString()),
		accounts: map[string]*account{},
		uploads:  map[string][]byte{},
		failures: map[string]failure{},
		extract:  DefaultExtractor,
		clock:    time.Now,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// DefaultExtractor pretends every screenshot is a successful ₹500 payment.
func DefaultExtractor(filename string, _ []byte) models.Payment {
	id := strings.TrimSuffix(filename, filepath.Ext(filename))
	if len(id) > 8 {
		id = id[:8]
	}
	return models.Payment{
		TransactionID: models.Ptr("T" + strings.ToUpper(id)),
		Amount:        models.Ptr(500.0),
		ReceiverName:  models.Ptr("Ravi Kumar"),
		UPIID:         models.Ptr("ravi@okaxis"),
		Status:        models.Ptr("Completed"),
		RawOCRText:    models.Ptr("Paid to Ravi Kumar ₹500"),
	}
}

// SetExtractor replaces the OCR stand-in.
func (s *Server) SetExtractor(e Extractor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extract = e
}

// FailNext makes the next request to method+path answer status with body.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// SeedUser creates an account and returns it with a valid token.
func (s *Server) SeedUser(username, email, password string) (models.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.addAccountLocked(username, email, password)
	return u, s.tokenLocked(u.ID, 24*time.Hour)
}

// ExpiredToken returns a correctly signed token that has already expired.
func (s *Server) ExpiredToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenLocked(userID, -time.Minute)
}

func (s *Server) SeedSport(name, icon string) models.Sport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSportLocked(models.SportCreate{Name: name, Icon: icon})
}

// SeedPayment stores p for userID and returns it with id and timestamps set.
func (s *Server) SeedPayment(userID int64, p models.Payment) models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPayID++
	p.ID = s.nextPayID
	p.UserID = userID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = models.Timestamp{Time: s.clock().UTC().Add(time.Duration(p.ID) * time.Second)}
	}
	if p.ScreenshotPath == "" {
		p.ScreenshotPath = uuid.NewString() + ".png"
	}
	s.attachSportLocked(&p)
	s.payments = append(s.payments, p)
	return p
}

// SeedUpload stores screenshot bytes under name without going through the
// OCR endpoint.
func (s *Server) SeedUpload(name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[name] = content
}

// Upload returns the stored bytes of an uploaded screenshot.
func (s *Server) Upload(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploads[name]
	return b, ok
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(s.record(), s.inject())

	api := r.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.requireUser())
	authed.GET("/auth/me", s.me)
	authed.POST("/payments/upload", s.uploadPayment)
	authed.GET("/payments", s.listPayments)
	authed.GET("/payments/:id", s.getPayment)
	authed.PUT("/payments/:id", s.updatePayment)
	authed.DELETE("/payments/:id", s.deletePayment)
	authed.GET("/sports", s.listSports)
	authed.POST("/sports", s.createSport)

	r.GET("/uploads/:name", s.serveUpload)
	return r
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Query:         c.Request.URL.RawQuery,
			Authorization: c.GetHeader(common.AuthorizationHeaderName),
			RequestID:     c.GetHeader(common.RequestIDHeaderName),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path
		s.mu.Lock()
		f, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()
		if ok {
			c.Data(f.status, "application/json", []byte(f.body))
			c.Abort()
			return
		}
		c.Next()
	}
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Server) tokenLocked(userID int64, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(s.clock().Add(ttl)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader(common.AuthorizationHeaderName), common.BearerPrefix)
		if raw == "" {
			detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		var claims jwt.RegisteredClaims
		tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			detail(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			detail(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		var found *models.User
		for _, a := range s.accounts {
			if a.user.ID == id {
				u := a.user
				found = &u
				break
			}
		}
		s.mu.Unlock()
		if found == nil {
			detail(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		c.Set("user", *found)
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

func (s *Server) addAccountLocked(username, email, password string) models.User {
	s.nextUserID++
	u := models.User{ID: s.nextUserID, Username: username, Email: email, CreatedAt: models.Timestamp{Time: s.clock().UTC()}}
	s.accounts[username] = &account{user: u, password: password}
	return u
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	var problems []gin.H
	if len(req.Username) < 3 {
		problems = append(problems, gin.H{"loc": []string{"body", "username"}, "msg": "String should have at least 3 characters"})
	}
	if !strings.Contains(req.Email, "@") {
		problems = append(problems, gin.H{"loc": []string{"body", "email"}, "msg": "value is not a valid email address"})
	}
	if len(req.Password) < 6 {
		problems = append(problems, gin.H{"loc": []string{"body", "password"}, "msg": "String should have at least 6 characters"})
	}
	if len(problems) > 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": problems})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[req.Username]; ok {
		detail(c, http.StatusBadRequest, "Username already taken")
		return
	}
	for _, a := range s.accounts {
		if a.user.Email == req.Email {
			detail(c, http.StatusBadRequest, "Email already registered")
			return
		}
	}

	u := s.addAccountLocked(req.Username, req.Email, req.Password)
	c.JSON(http.StatusCreated, models.AuthResponse{AccessToken: s.tokenLocked(u.ID, 24*time.Hour), TokenType: "bearer", User: u})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[req.Username]
	if !ok || a.password != req.Password {
		detail(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{AccessToken: s.tokenLocked(a.user.ID, 24*time.Hour), TokenType: "bearer", User: a.user})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) uploadPayment(c *gin.Context) {
	u := currentUser(c)

	fh, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, "Field required: file")
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		detail(c, http.StatusBadRequest, "File type '"+ext+"' not allowed")
		return
	}

	var sportID *int64
	if raw := c.PostForm("sport_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			detail(c, http.StatusUnprocessableEntity, "sport_id must be an integer")
			return
		}
		sportID = &id
	}

	f, err := fh.Open()
	if err != nil {
		detail(c, http.StatusBadRequest, "Unreadable upload")
		return
	}
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	_ = f.Close()
	if err != nil {
		detail(c, http.StatusBadRequest, "Unreadable upload")
		return
	}
	if len(content) > maxUploadBytes {
		detail(c, http.StatusBadRequest, "File size must be under 10 MB")
		return
	}

	s.mu.Lock()
	if sportID != nil && s.sportLocked(*sportID) == nil {
		s.mu.Unlock()
		detail(c, http.StatusNotFound, "Sport category not found")
		return
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	s.uploads[name] = content
	extract := s.extract
	s.mu.Unlock()

	p := extract(name, content)
	p.SportID = sportID
	p.ScreenshotPath = name
	c.JSON(http.StatusCreated, s.SeedPayment(u.ID, p))
}

func containsFold(v *string, needle string) bool {
	return v != nil && strings.Contains(strings.ToLower(*v), strings.ToLower(needle))
}

func (s *Server) listPayments(c *gin.Context) {
	u := currentUser(c)

	var sportID *int64
	if raw := c.Query("sport_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			detail(c, http.StatusUnprocessableEntity, "sport_id must be an integer")
			return
		}
		sportID = &id
	}
	status := c.Query("status")
	search := c.Query("search")

	s.mu.Lock()
	out := make([]models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if p.UserID != u.ID {
			continue
		}
		if sportID != nil && (p.SportID == nil || *p.SportID != *sportID) {
			continue
		}
		if status != "" && !containsFold(p.Status, status) {
			continue
		}
		if search != "" && !(containsFold(p.TransactionID, search) || containsFold(p.SenderName, search) ||
			containsFold(p.ReceiverName, search) || containsFold(p.UPIID, search)) {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt.Time) })
	c.JSON(http.StatusOK, out)
}

// paymentIndexLocked finds the caller's payment named by the :id parameter.
func (s *Server) paymentIndexLocked(c *gin.Context) int {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return -1
	}
	u := currentUser(c)
	for i, p := range s.payments {
		if p.ID == id && p.UserID == u.ID {
			return i
		}
	}
	return -1
}

func (s *Server) getPayment(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.paymentIndexLocked(c)
	if i < 0 {
		detail(c, http.StatusNotFound, "Payment not found")
		return
	}
	c.JSON(http.StatusOK, s.payments[i])
}

func (s *Server) updatePayment(c *gin.Context) {
	var upd models.PaymentUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.paymentIndexLocked(c)
	if i < 0 {
		detail(c, http.StatusNotFound, "Payment not found")
		return
	}
	if upd.SportID != nil && s.sportLocked(*upd.SportID) == nil {
		detail(c, http.StatusNotFound, "Sport category not found")
		return
	}

	p := &s.payments[i]
	if upd.SportID != nil {
		p.SportID = upd.SportID
	}
	if upd.TransactionID != nil {
		p.TransactionID = upd.TransactionID
	}
	if upd.Amount != nil {
		p.Amount = upd.Amount
	}
	if upd.SenderName != nil {
		p.SenderName = upd.SenderName
	}
	if upd.ReceiverName != nil {
		p.ReceiverName = upd.ReceiverName
	}
	if upd.Date != nil {
		p.Date = upd.Date
	}
	if upd.Status != nil {
		p.Status = upd.Status
	}
	if upd.UPIID != nil {
		p.UPIID = upd.UPIID
	}
	s.attachSportLocked(p)
	c.JSON(http.StatusOK, *p)
}

func (s *Server) deletePayment(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.paymentIndexLocked(c)
	if i < 0 {
		detail(c, http.StatusNotFound, "Payment not found")
		return
	}
	delete(s.uploads, s.payments[i].ScreenshotPath)
	s.payments = append(s.payments[:i], s.payments[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (s *Server) sportLocked(id int64) *models.Sport {
	for i := range s.sports {
		if s.sports[i].ID == id {
			return &s.sports[i]
		}
	}
	return nil
}

func (s *Server) attachSportLocked(p *models.Payment) {
	p.Sport = nil
	if p.SportID == nil {
		return
	}
	if sp := s.sportLocked(*p.SportID); sp != nil {
		cp := *sp
		p.Sport = &cp
	}
}

func (s *Server) addSportLocked(in models.SportCreate) models.Sport {
	s.nextSportID++
	icon := in.Icon
	if icon == "" {
		icon = "🏆"
	}
	sp := models.Sport{ID: s.nextSportID, Name: in.Name, Icon: icon, Description: in.Description, CreatedAt: models.Timestamp{Time: s.clock().UTC()}}
	s.sports = append(s.sports, sp)
	return sp
}

func (s *Server) listSports(c *gin.Context) {
	s.mu.Lock()
	out := append([]models.Sport(nil), s.sports...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if out == nil {
		out = []models.Sport{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createSport(c *gin.Context) {
	var in models.SportCreate
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"loc": []string{"body", "name"}, "msg": "Field required"}}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.sports {
		if sp.Name == in.Name {
			detail(c, http.StatusBadRequest, "Sport already exists")
			return
		}
	}
	c.JSON(http.StatusCreated, s.addSportLocked(in))
}

func (s *Server) serveUpload(c *gin.Context) {
	b, ok := s.Upload(c.Param("name"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(b), b)
}
