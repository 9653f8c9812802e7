package api

import (
	"errors"

	"mepapp/calltrack/internal/common"
	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/db/repositories"
	"mepapp/calltrack/internal/metrics"
	"mepapp/calltrack/internal/services"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Repositories struct {
	Users    *repositories.UserRepo
	Jobs     *repositories.JobRepo
	CallLogs *repositories.CallLogRepo
	Contacts *repositories.ContactSummaryRepo
}

type Services struct {
	Cache    common.CacheInterface
	CallLogs *services.CallLogService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

func InitDependencies(cfg *config.ServerConfig, orm *gorm.DB, sqlxDB *sqlx.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	if orm == nil || sqlxDB == nil {
		return nil, errors.New("database handles are required")
	}

	repos := &Repositories{
		Users:    repositories.NewUserRepo(orm),
		Jobs:     repositories.NewJobRepo(orm),
		CallLogs: repositories.NewCallLogRepo(orm),
		Contacts: repositories.NewContactSummaryRepo(sqlxDB),
	}

	staffCache := common.NewStaffCache(cfg.Redis, cfg.Cache)

	svcs := &Services{
		Cache: staffCache,
		CallLogs: services.NewCallLogService(
			repos.CallLogs,
			repos.Users,
			repos.Jobs,
			repos.Contacts,
			staffCache,
			cfg.Cache.StaffTTL,
			metricsReg,
		),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
