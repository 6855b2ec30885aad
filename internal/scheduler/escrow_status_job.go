package scheduler

import (
	"time"

	"github.com/booster-finance/bes/internal/config"
	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/logger"
	"github.com/booster-finance/bes/internal/logic"
	"github.com/booster-finance/bes/internal/model"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// EscrowStatusJob 托管状态推进任务
// 任何人都可以触发时间门控的转换，这个任务是服务自带的触发器：
// 周期扫描未终结的项目，尝试募集结算和里程碑检查
type EscrowStatusJob struct {
	db          *gorm.DB
	escrowLogic *logic.EscrowLogic
	config      *config.Config
}

// NewEscrowStatusJob 创建托管状态推进任务
func NewEscrowStatusJob(db *gorm.DB, reg *registry.Registry, cfg *config.Config) *EscrowStatusJob {
	return &EscrowStatusJob{
		db:          db,
		escrowLogic: logic.NewEscrowLogic(db, reg),
		config:      cfg,
	}
}

// GetName 获取任务名称
func (j *EscrowStatusJob) GetName() string {
	return "escrow_status_updater"
}

// GetSchedule 获取调度配置
func (j *EscrowStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *EscrowStatusJob) Execute() {
	logger.Debug("Starting escrow status update task")

	var projects []model.ProjectModel
	err := j.db.Where("status IN ?", []string{
		string(escrow.StatusStarted),
		string(escrow.StatusFunded),
	}).Find(&projects).Error
	if err != nil {
		logger.Error("Failed to fetch projects: %v", err)
		return
	}

	updatedCount := 0
	for i := range projects {
		project := &projects[i]

		advanced, err := j.escrowLogic.Crank(project)
		if err != nil {
			logger.Error("Failed to advance project %d: %v", project.Id, err)
			continue
		}
		if advanced {
			logger.Info("Advanced project %d from %s", project.Id, project.Status)
			updatedCount++
		}
	}

	logger.Debug("Escrow status update completed. Advanced %d projects", updatedCount)
}
