package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"darna/internal/config"
	"darna/internal/events"
	"darna/pkg/db"
)

// MockPublisher is a mock implementation of the broker forwarder
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort:           ":0",
		CORSOrigins:       "*",
		DatabaseDriver:    "sqlite",
		DatabaseDSN:       fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:         "test_jwt_secret",
		JWTTTL:            time.Hour,
		GuestTTL:          time.Hour,
		ShippingThreshold: 50,
		ShippingFee:       9.99,
		CatalogCacheTTL:   time.Minute,
		PromotionCacheTTL: time.Minute,
	}
}

func TestNewApp_HealthAndRoutes(t *testing.T) {
	cfg := testConfig()
	gdb, err := db.Open(db.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseDSN})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	app, err := newApp(cfg, gdb, publisher)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "up", health["database"])
	assert.Equal(t, "enabled", health["broker"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/buckets", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoadClassifier(t *testing.T) {
	classifier, err := loadClassifier("")
	require.NoError(t, err)
	assert.NotEmpty(t, classifier.Buckets())

	_, err = loadClassifier("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLogReservation(t *testing.T) {
	body, err := json.Marshal(events.Event{Type: events.ReservationCreated, Payload: map[string]string{"id": "r1"}, At: time.Now()})
	require.NoError(t, err)

	assert.NoError(t, logReservation(amqp.Delivery{Body: body}))
	assert.Error(t, logReservation(amqp.Delivery{Body: []byte("not json")}))
}
