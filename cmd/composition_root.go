package cmd

import (
	"fmt"
	"io"
	"log/slog"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/adapters/out/metrics"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/eventlogrepo"
	"orderflow/internal/adapters/out/postgres/notificationrepo"
	"orderflow/internal/api"
	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/core/application/notifications"
	"orderflow/internal/core/application/reactions"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/application/workflow"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived collaborator of the process. The bus
// subscriptions are made once, in NewCompositionRoot.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger
	clock  kernel.Clock

	gormDB           *gorm.DB
	uowFactory       ports.UnitOfWorkFactory
	eventLog         ports.EventLog
	notificationRepo ports.NotificationRepository

	bus         *eventbus.Bus
	coordinator *workflow.Coordinator
	center      *notifications.Center
	recorder    *metrics.Recorder
}

func NewCompositionRoot(cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:    cfg,
		logger: logger,
		clock:  kernel.SystemClock,
	}

	switch cfg.Store {
	case StorePostgres:
		db, err := postgres.Open(cfg.Connection().DSN(), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		c.gormDB = db
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.eventLog = eventlogrepo.NewGormEventLog(db)
		c.notificationRepo = notificationrepo.NewGormNotificationRepository(db)
	case StoreMemory:
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		c.eventLog = memory.NewEventLog()
		c.notificationRepo = memory.NewNotificationRepository()
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	c.bus = eventbus.New(c.eventLog,
		eventbus.WithLogger(logger),
		eventbus.WithMaxDepth(cfg.MaxDispatchDepth),
		eventbus.WithClock(c.clock),
	)
	c.coordinator = workflow.NewCoordinator(c.uowFactory, c.bus, c.clock, logger)
	c.center = notifications.NewCenter(c.notificationRepo, c.clock, logger)
	c.recorder = metrics.NewRecorder()

	reactions.Register(c.bus, c.coordinator, logger)
	c.center.Attach(c.bus)
	c.recorder.Attach(c.bus)

	logger.Info("composition root ready", "store", cfg.Store, "max_dispatch_depth", cfg.MaxDispatchDepth)
	return c, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c *CompositionRoot) Coordinator() *workflow.Coordinator {
	return c.coordinator
}

func (c *CompositionRoot) Bus() *eventbus.Bus {
	return c.bus
}

func (c *CompositionRoot) Notifications() *notifications.Center {
	return c.center
}

func (c *CompositionRoot) Metrics() *metrics.Recorder {
	return c.recorder
}

func (c *CompositionRoot) CreateGetDepartmentWorkloadQueryHandler() queries.GetDepartmentWorkloadQueryHandler {
	return queries.NewGetDepartmentWorkloadQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateDeleteArtifactCommandHandler() commands.DeleteArtifactCommandHandler {
	return commands.NewDeleteArtifactCommandHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateNotifyOverdueDeliveriesCommandHandler() *commands.NotifyOverdueDeliveriesCommandHandler {
	return commands.NewNotifyOverdueDeliveriesCommandHandler(c.uowFactory, c.bus, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	overdue := jobs.NewOverdueDeliveryJob(
		c.CreateNotifyOverdueDeliveriesCommandHandler(),
		c.cfg.OverdueScanSchedule,
		c.clock,
		c.recorder.ObserveOverdueScan,
		c.logger,
	)
	return jobs.NewJobManager(overdue)
}

// CreateHTTPServer builds the echo instance serving the API, its document and /metrics.
func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}
	server := httpin.NewServer(
		c.coordinator,
		c.bus,
		c.center,
		c.CreateGetDepartmentWorkloadQueryHandler(),
		c.logger,
	)
	return httpin.NewRouter(server, doc, c.recorder.Handler(), c.logger), nil
}

// Close releases the database connection pool, if any.
func (c *CompositionRoot) Close() error {
	if c.gormDB == nil {
		return nil
	}
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
