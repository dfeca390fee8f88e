// Command sandbox runs the notification engine against an embedded stub of
// the dashboard backend. It exists for local development: seed data flows
// through fetch, filtering and publishing end to end without a real server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ecosense/notifsync/pkg/api"
	"github.com/ecosense/notifsync/pkg/common"
	"github.com/ecosense/notifsync/pkg/identity"
	"github.com/ecosense/notifsync/pkg/kv"
	"github.com/ecosense/notifsync/pkg/notify"
)

type stubBackend struct {
	mu      sync.Mutex
	records []map[string]any
}

func (b *stubBackend) setup(server *gin.Engine) {
	server.GET("/notificaciones/admin", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, b.records)
	})
	server.GET("/notificaciones/me", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, b.records)
	})
	server.GET("/configuracion-notificaciones/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"notify_mq135_good":  true,
			"notify_mq135_bad":   true,
			"notify_mq7_bad":     true,
			"notify_mq4_warning": true,
		})
	})
	server.PUT("/notificaciones/:id/leer", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, record := range b.records {
			if record["id"] == c.Param("id") {
				record["leida"] = true
			}
		}
		c.Status(http.StatusOK)
	})
	server.PUT("/notificaciones/leer-todas", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, record := range b.records {
			record["leida"] = true
		}
		c.Status(http.StatusOK)
	})
}

func seedRecords() []map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)
	return []map[string]any{
		{
			"id": "1", "titulo": "Calidad del aire crítica", "mensaje": "MQ-135 superó el umbral",
			"tipo": "danger", "sensor_codigo": "mq135", "valor": 412.5,
			"creado_en": now, "leida": false, "usuario_id": 7,
			"usuario": map[string]any{"nombre": "Ana"},
		},
		{
			"id": "2", "titulo": "Nivel de CO elevado", "mensaje": "MQ-7 en zona de advertencia",
			"tipo": "warning", "sensor_codigo": "mq7", "valor": 61.0,
			"creado_en": now, "leida": true, "usuario_id": 7,
			"usuario": map[string]any{"nombre": "Ana"},
		},
		{
			"id": "3", "title": "Methane reading", "type": "info", "sensor": "mq4",
			"value": 12.3, "created_at": now, "read": false, "user_id": 7,
			"user_name": "Ana",
		},
	}
}

func sandboxCredential() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 7,
		Role:   "usuario",
		Name:   "Ana",
	})
	signed, err := token.SignedString([]byte("sandbox-secret"))
	if err != nil {
		log.Fatal("Failed to sign sandbox credential:", err)
	}
	return signed
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	logger := common.GetLoggerWith(common.LoggerNameSandbox)

	hostPort := strings.TrimSpace(os.Getenv(common.EnvKeySandboxHostPort))
	if hostPort == "" {
		hostPort = ":1090"
	}

	pollPeriod := notify.DefaultPollPeriod
	if raw := os.Getenv(common.EnvKeyNotifyPollPeriod); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("Invalid NOTIFY_POLL_PERIOD, should be a Go duration like 5s")
		}
		pollPeriod = parsed
	}

	var store kv.Store
	switch os.Getenv(common.EnvKeyNotifyDBType) {
	case "file":
		store = kv.GetInstance(kv.UseSqliteDialector())
	case "", "memory":
		store = kv.GetInstance(kv.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown NOTIFY_DB_TYPE: " + os.Getenv(common.EnvKeyNotifyDBType))
	}

	backend := &stubBackend{records: seedRecords()}
	server := gin.Default()
	backend.setup(server)
	go func() {
		logger.Info("Starting stub backend on " + hostPort)
		if err := server.Run(hostPort); err != nil {
			log.Fatalf("stub backend failed to serve: %v", err)
		}
	}()

	baseURL := strings.TrimSpace(os.Getenv(common.EnvKeyNotifyAPIBaseURL))
	if baseURL == "" {
		baseURL = "http://localhost" + hostPort
	}

	credential := sandboxCredential()
	client := api.NewClient(baseURL)
	engine := notify.NewEngine(store, func() string { return credential }).
		WithServices(notify.ServiceOpts{
			Fetcher:      client,
			ConfigSource: client,
			Mutator:      client,
		}).
		WithPollPeriod(pollPeriod)

	snapshots, unsubscribe := engine.Subscribe(8)
	defer unsubscribe()

	// give the stub server a moment to bind before the first fetch
	time.Sleep(200 * time.Millisecond)

	if err := engine.Start(identity.RoleMember); err != nil {
		log.Fatalf("failed to start monitoring: %v", err)
	}
	defer engine.ClearAllState()

	logger.Info("Engine started",
		zap.String("base_url", baseURL),
		zap.Duration("poll_period", pollPeriod))

	marked := false
	for snapshot := range snapshots {
		logger.Info("Snapshot",
			zap.Int("visible", len(snapshot.Notifications)),
			zap.Int("unread", snapshot.UnreadCount))
		for _, n := range snapshot.Notifications {
			logger.Info("Visible notification",
				zap.String("id", n.ID),
				zap.String("title", n.Title),
				zap.String("severity", string(n.Severity)),
				zap.String("sensor", n.SensorCode),
				zap.Bool("read", n.Read))
		}

		// exercise the mutation path once real data arrived
		if !marked && snapshot.UnreadCount > 0 {
			marked = true
			engine.MarkAllAsRead(context.Background())
		}
	}
}
