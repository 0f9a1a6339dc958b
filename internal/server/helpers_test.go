package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	"github.com/MahyaarMaleki/storetrack/internal/handler"
	"github.com/MahyaarMaleki/storetrack/internal/infra/db"
	infraRepo "github.com/MahyaarMaleki/storetrack/internal/infra/repository"
	"github.com/MahyaarMaleki/storetrack/internal/middleware"
	"github.com/MahyaarMaleki/storetrack/internal/server"
	"github.com/MahyaarMaleki/storetrack/internal/usecase"
	auth "github.com/MahyaarMaleki/storetrack/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@storetrack.com"
	adminPassword = "password123"
)

// アプリ一式をin-memory sqliteで立ち上げる
func startApp(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	cfg := config.Config{
		DBDriver:           "sqlite",
		DatabaseURL:        "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
		JWTSecret:          "test-secret",
		JWTTTL:             12 * time.Hour,
		LoginRatePerMinute: 100,
		LoginRateBurst:     100,
	}

	gormDB, err := db.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = db.Close(gormDB) })

	hash, err := auth.NewBcryptPasswordHasher(bcrypt.MinCost).Hash(adminPassword)
	require.NoError(t, err)
	admins := infraRepo.NewAdminGormRepository(gormDB)
	_, err = admins.Upsert(context.Background(), model.Admin{Email: adminEmail, HashedPassword: hash})
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, nil)
	require.NoError(t, err)

	txm := infraRepo.NewTxManagerGorm(gormDB, db.TxOptions(cfg))
	productUC := usecase.NewProductUsecase(infraRepo.NewProductGormRepository(gormDB), txm, nil)
	orderUC := usecase.NewOrderUsecase(infraRepo.NewOrderGormRepository(gormDB), txm, nil, nil)
	historyUC := usecase.NewHistoryUsecase(infraRepo.NewHistoryGormRepository(gormDB))
	loginUC := auth.NewLoginUsecase(admins, auth.NewBcryptPasswordVerifier(), tokens)

	e := server.New(cfg, server.Deps{
		Auth:         handler.NewAuthHandler(loginUC, false),
		Products:     handler.NewProductHandler(productUC),
		History:      handler.NewHistoryHandler(historyUC),
		Orders:       handler.NewOrderHandler(orderUC),
		Verifier:     tokens,
		LoginLimiter: middleware.NewPerMinuteLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, gormDB
}

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

func NewTestClient(t *testing.T, baseURL string) *TestClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &TestClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

// JSONで送り、outがあればデコードする。ステータスと生のボディを返す
func (c *TestClient) Do(t *testing.T, method, path string, body any, out any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return res.StatusCode, raw
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (c *TestClient) Login(t *testing.T) {
	t.Helper()

	var out loginResponse
	status, raw := c.Do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	}, &out)
	require.Equal(t, http.StatusOK, status, string(raw))
	require.NotEmpty(t, out.Token)
	c.Token = out.Token
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

type productResponse struct {
	Message string        `json:"message"`
	Product model.Product `json:"product"`
}

type orderResponse struct {
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

func (c *TestClient) CreateProduct(t *testing.T, name string, supply, price int64, category model.Category) model.Product {
	t.Helper()

	var out productResponse
	status, raw := c.Do(t, http.MethodPost, "/products", map[string]any{
		"name":     name,
		"supply":   supply,
		"price":    price,
		"category": category,
	}, &out)
	require.Equal(t, http.StatusCreated, status, string(raw))
	return out.Product
}

func (c *TestClient) GetProduct(t *testing.T, id int64) (int, model.Product) {
	t.Helper()

	var p model.Product
	status, _ := c.Do(t, http.MethodGet, "/products/"+itoa(id), nil, &p)
	return status, p
}

func (c *TestClient) History(t *testing.T, productID int64) []model.ProductHistory {
	t.Helper()

	var rows []model.ProductHistory
	status, raw := c.Do(t, http.MethodGet, "/products/"+itoa(productID)+"/history", nil, &rows)
	require.Equal(t, http.StatusOK, status, string(raw))
	return rows
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func countByType(rows []model.ProductHistory, typ model.HistoryType) (n int, qty int64) {
	for _, r := range rows {
		if r.Type == typ {
			n++
			qty += r.Quantity
		}
	}
	return n, qty
}

func jsonUnmarshal(b []byte, out any) error {
	return json.Unmarshal(b, out)
}
