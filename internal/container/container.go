package container

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	auditLogRepo "github.com/Avanquish/DoughNation-sub000/internal/auditlog"
	"github.com/Avanquish/DoughNation-sub000/internal/donations"
	"github.com/Avanquish/DoughNation-sub000/internal/inventory"
	"github.com/Avanquish/DoughNation-sub000/internal/listings"
	"github.com/Avanquish/DoughNation-sub000/internal/notifications"
	"github.com/Avanquish/DoughNation-sub000/internal/repository"
	"github.com/Avanquish/DoughNation-sub000/internal/requests"
	"github.com/Avanquish/DoughNation-sub000/internal/users"
	"github.com/Avanquish/DoughNation-sub000/pkg/auditlog"
	"github.com/Avanquish/DoughNation-sub000/pkg/security"
)

type Container struct {
	Repository          *repository.Repository
	AuditLog            *auditlog.Auditlog
	Scheduler           *listings.Scheduler
	LoginHandler        *security.LoginHandler
	InventoryHandler    *inventory.InventoryHandler
	ListingHandler      *listings.ListingHandler
	RequestHandler      *requests.RequestHandler
	DonationHandler     *donations.DonationHandler
	NotificationHandler *notifications.NotificationHandler
	UserHandler         *users.UsersHandler
}

func NewAppContainer(db *sql.DB, sweepInterval time.Duration, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	userRepo := users.NewRepository(repo)
	invRepo := inventory.NewRepository(repo)
	listRepo := listings.NewRepository(repo)
	notifRepo := notifications.NewRepository(repo)
	reqRepo := requests.NewRepository(repo)
	donRepo := donations.NewRepository(repo)

	scheduler := listings.NewScheduler(repo, listRepo, invRepo, sweepInterval, log)
	notifier := notifications.NewNotifier(notifRepo, log)

	invService := inventory.NewService(repo, invRepo, scheduler, log)
	reqService := requests.NewService(repo, reqRepo, invRepo, listRepo, scheduler, notifier, log)
	donService := donations.NewService(repo, donRepo, invRepo, userRepo, reqRepo, scheduler, log)

	return &Container{
		Repository:          repo,
		AuditLog:            auditLog,
		Scheduler:           scheduler,
		LoginHandler:        security.NewLoginHandler(repo),
		InventoryHandler:    inventory.NewHandler(invService, auditLog, auditRepo),
		ListingHandler:      listings.NewHandler(listRepo, scheduler),
		RequestHandler:      requests.NewHandler(reqService, auditLog),
		DonationHandler:     donations.NewHandler(donService, reqRepo, auditLog),
		NotificationHandler: notifications.NewHandler(notifRepo),
		UserHandler:         users.NewHandler(userRepo),
	}
}
