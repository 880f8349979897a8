package main

import (
	"context"
	"fmt"
	"time"

	common_api "go-backoffice/internal/common/api"
	"go-backoffice/internal/config"
	"go-backoffice/internal/database"
	"go-backoffice/internal/features/appointment"
	"go-backoffice/internal/features/audit"
	"go-backoffice/internal/features/bonus"
	"go-backoffice/internal/features/cascade"
	cron_feature "go-backoffice/internal/features/cron"
	"go-backoffice/internal/features/dealership"
	"go-backoffice/internal/features/lead"
	"go-backoffice/internal/features/messaging"
	"go-backoffice/internal/features/note"
	"go-backoffice/internal/features/notification"
	"go-backoffice/internal/features/recruiting"
	"go-backoffice/internal/features/staff"
	"go-backoffice/internal/features/system"
	"go-backoffice/internal/logger"
	"go-backoffice/internal/middleware"
	"go-backoffice/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.CORSMiddleware())
	app.Use(middleware.Metrics())

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("type", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatal("Server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	log *zap.Logger,
	leads lead.LeadRepository,
	appointments appointment.AppointmentRepository,
	notes note.NoteRepository,
	notifications notification.NotificationRepository,
	audits audit.AuditRepository,
	candidates recruiting.CandidateRepository,
) {
	repos := map[string]indexer{
		"leads":         leads,
		"appointments":  appointments,
		"notes":         notes,
		"notifications": notifications,
		"audit_logs":    audits,
		"candidates":    candidates,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, repo := range repos {
					if err := repo.EnsureIndexes(ctx); err != nil {
						log.Error("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

// RegisterStaleSweep schedules the recruiting stale sweep when enabled.
func RegisterStaleSweep(cfg *config.Config, cronService cron_feature.CronService, recruitingService recruiting.RecruitingService, log *zap.Logger) error {
	if !cfg.StaleSweepEnabled {
		log.Info("Stale candidate sweep disabled")
		return nil
	}
	return cronService.RegisterJob(cron_feature.Job{
		Name:     "stale-candidate-sweep",
		Schedule: cfg.StaleSweepSchedule,
		Run:      recruitingService.SweepStale,
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			database.NewTransactor,

			// Repositories
			staff.NewStaffRepository,
			dealership.NewDealershipRepository,
			lead.NewLeadRepository,
			appointment.NewAppointmentRepository,
			note.NewNoteRepository,
			notification.NewNotificationRepository,
			audit.NewAuditRepository,
			recruiting.NewCandidateRepository,
			cron_feature.NewCronRepository,

			// Services
			audit.NewAuditService,
			note.NewNoteService,
			notification.NewHub,
			notification.NewNotificationService,
			lead.NewLeadService,
			appointment.NewAppointmentService,
			cascade.NewCommitter,
			cascade.NewCascadeService,
			staff.NewStaffService,
			dealership.NewDealershipService,
			bonus.NewTableFromConfig,
			bonus.NewEarningsService,
			messaging.NewGateway,
			recruiting.NewRecruitingService,
			cron_feature.NewCronService,

			// Interface adapters to break circular dependencies
			func(c cascade.CascadeService) staff.NameSynchronizer { return c },
			func(c cascade.CascadeService) dealership.NameSynchronizer { return c },

			// Controllers
			staff.NewStaffController,
			dealership.NewDealershipController,
			lead.NewLeadController,
			appointment.NewAppointmentController,
			note.NewNoteController,
			notification.NewNotificationController,
			cascade.NewCascadeController,
			bonus.NewBonusController,
			recruiting.NewRecruitingController,
			audit.NewAuditController,
			cron_feature.NewCronController,
			system.NewDebugController,

			// API Routes
			AsRoute(staff.NewStaffApi),
			AsRoute(dealership.NewDealershipApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(appointment.NewAppointmentApi),
			AsRoute(note.NewNoteApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(cascade.NewCascadeApi),
			AsRoute(bonus.NewBonusApi),
			AsRoute(recruiting.NewRecruitingApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			RegisterStaleSweep,
			cron_feature.RegisterHooks,
			StartServer,
			InitializeIndexes,
		),
	)

	app.Run()
}
