package logic

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/logger"
	"github.com/booster-finance/bes/internal/model"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// Collaborators 托管实例的外部协作者
type Collaborators struct {
	Token   registry.BindInstrument
	Rewards escrow.RewardIssuer
	Sink    escrow.EventSink
	Account common.Address // 链上模式下的共享托管账户，进程内模式留空
}

// CreateProjectParams 创建项目参数
type CreateProjectParams struct {
	Title             string
	Description       string
	MetadataURL       string
	Creator           string
	FundingGoal       string
	StartTime         time.Time
	MilestoneDates    []time.Time
	MilestonePercents []int64
}

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db       *gorm.DB
	registry *registry.Registry
	collab   Collaborators
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB, reg *registry.Registry, collab Collaborators) *ProjectLogic {
	return &ProjectLogic{db: db, registry: reg, collab: collab}
}

// CreateProject 创建项目：先在注册表实例化托管，再落库项目与里程碑
func (p *ProjectLogic) CreateProject(params *CreateProjectParams) (*model.ProjectModel, error) {
	if params.Title == "" {
		return nil, errors.New("项目标题不能为空")
	}
	creator, err := parseAddress(params.Creator)
	if err != nil {
		return nil, err
	}
	goal, err := parseAmount(params.FundingGoal)
	if err != nil {
		return nil, fmt.Errorf("募集目标无效: %w", err)
	}

	entry, err := p.registry.Create(registry.Params{
		Token:             p.collab.Token,
		Rewards:           p.collab.Rewards,
		Sink:              p.collab.Sink,
		Creator:           creator,
		Account:           p.collab.Account,
		FundingGoal:       goal,
		StartTime:         params.StartTime,
		Metadata:          params.MetadataURL,
		MilestoneDates:    params.MilestoneDates,
		MilestonePercents: params.MilestonePercents,
	})
	if err != nil {
		return nil, err
	}

	project := &model.ProjectModel{
		Title:            params.Title,
		Description:      params.Description,
		MetadataURL:      params.MetadataURL,
		EscrowId:         entry.Id,
		EscrowAccount:    entry.Account.Hex(),
		FundingGoal:      goal.String(),
		TotalContributed: "0",
		Withdrawable:     "0",
		StartTime:        params.StartTime,
		Status:           string(escrow.StatusStarted),
		CreatorAddress:   creator.Hex(),
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		for i, m := range entry.Escrow.Milestones() {
			milestone := &model.MilestoneModel{
				ProjectId:      project.Id,
				Idx:            i,
				ReleaseDate:    m.ReleaseDate,
				ReleasePercent: m.ReleasePercent,
				VotesAgainst:   m.VotesAgainst.String(),
			}
			if err := tx.Create(milestone).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to persist project for escrow %d: %v", entry.Id, err)
		return nil, fmt.Errorf("保存项目失败: %w", err)
	}

	return project, nil
}

// GetProjects 获取项目列表
func (p *ProjectLogic) GetProjects(status, creator string, page, pageSize int) ([]model.ProjectModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := p.db.Model(&model.ProjectModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if creator != "" {
		query = query.Where("creator_address = ?", creator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目列表失败: %w", err)
	}

	var projects []model.ProjectModel
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目列表失败: %w", err)
	}

	return projects, total, nil
}

// GetProject 获取项目详情
func (p *ProjectLogic) GetProject(id int64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}
	return &project, nil
}

// GetProjectStats 获取项目统计信息
func (p *ProjectLogic) GetProjectStats(id int64) (map[string]interface{}, error) {
	project, err := p.GetProject(id)
	if err != nil {
		return nil, err
	}

	var contributorCount int64
	p.db.Model(&model.ContributeRecordModel{}).
		Where("project_id = ?", id).
		Distinct("address").
		Count(&contributorCount)

	var contributionCount int64
	p.db.Model(&model.ContributeRecordModel{}).
		Where("project_id = ?", id).
		Count(&contributionCount)

	var refundCount int64
	p.db.Model(&model.RefundRecordModel{}).
		Where("project_id = ?", id).
		Count(&refundCount)

	// 完成百分比
	completion := float64(0)
	goal, okGoal := new(big.Int).SetString(project.FundingGoal, 10)
	total, okTotal := new(big.Int).SetString(project.TotalContributed, 10)
	if okGoal && okTotal && goal.Sign() > 0 {
		ratio := new(big.Float).Quo(new(big.Float).SetInt(total), new(big.Float).SetInt(goal))
		completion, _ = new(big.Float).Mul(ratio, big.NewFloat(100)).Float64()
	}

	return map[string]interface{}{
		"project_id":            project.Id,
		"status":                project.Status,
		"funding_goal":          project.FundingGoal,
		"total_contributed":     project.TotalContributed,
		"completion_percentage": completion,
		"released_percent":      project.ReleasedPercent,
		"current_milestone":     project.CurrentMilestone,
		"contributor_count":     contributorCount,
		"contribution_count":    contributionCount,
		"refund_count":          refundCount,
		"start_time":            project.StartTime,
	}, nil
}

// CancelProject 创建者取消项目
func (p *ProjectLogic) CancelProject(id int64, caller string) error {
	addr, err := parseAddress(caller)
	if err != nil {
		return err
	}

	project, entry, err := findEscrow(p.db, p.registry, id)
	if err != nil {
		return err
	}

	if err := entry.Escrow.CancelProject(addr); err != nil {
		return err
	}
	return syncProject(p.db, project, entry.Escrow)
}
