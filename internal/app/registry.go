package app

import (
	"database/sql"

	"go-leave/internal/access"
	"go-leave/internal/attachment"
	"go-leave/internal/blob"
	"go-leave/internal/employee"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/workhour"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	store blob.Store,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	attachmentRepo := attachment.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	directory := employee.NewDirectory(employeeRepo, rdb, logger)
	resolver := access.NewResolver(rbacService, directory)
	holidayService := holiday.NewService(db, holidayRepo, holiday.NewHTTPFetcher(cfg.Holiday.FetchTimeout), rdb, logger)
	ledger := attachment.NewLedger(attachmentRepo, store, logger)
	leaveService := leave.NewService(db, leaveRepo, leave.Dependencies{
		Ledger:    ledger,
		Directory: directory,
		Hours:     workhour.NewCalculator(holidayService),
		Notifier:  newNotifier(cfg, outboxRepo, logger),
		BaseURL:   cfg.App.BaseURL,
	}, logger)

	// --- Handlers ---
	holidayHandler := holiday.NewHandler(holidayService, logger)
	leaveHandler := leave.NewHandler(leaveService, rdb, logger)
	rbacHandler := rbac.NewHandler()

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		holiday.RegisterRoutes(api, holidayHandler, resolver)
		leave.RegisterRoutes(api, leaveHandler, resolver, rdb)
		rbac.RegisterRoutes(api, rbacHandler, resolver)
	}

	return nil
}

// newNotifier picks how leave notifications leave the API process.
func newNotifier(cfg *Config, outboxRepo kafka.OutboxRepository, logger *zap.Logger) notification.Sender {
	switch cfg.Notify.Mode {
	case NotifySMTP:
		return notification.NewSMTPSender(smtpConfig(cfg), logger)
	case NotifyNone:
		return nil
	default:
		return notification.NewOutboxSender(outboxRepo)
	}
}

func smtpConfig(cfg *Config) notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     cfg.Smtp.Host,
		Port:     cfg.Smtp.Port,
		User:     cfg.Smtp.User,
		Password: cfg.Smtp.Password,
		From:     cfg.Smtp.From,
		TLS:      boolValue(cfg.Smtp.TLSEnabled),
	}
}
