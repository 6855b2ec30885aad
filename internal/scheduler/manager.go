package scheduler

import (
	"github.com/booster-finance/bes/internal/config"
	"github.com/booster-finance/bes/internal/logger"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	registry  *registry.Registry
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, reg *registry.Registry, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		db:        db,
		registry:  reg,
		config:    cfg,
	}, nil
}

// Start 启动任务管理器
func Start(db *gorm.DB, reg *registry.Registry, cfg *config.Config) *Manager {
	manager, err := NewManager(db, reg, cfg)
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	manager.RegisterJobs()
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	job := NewEscrowStatusJob(m.db, m.registry, m.config)
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
