package logic

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/model"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("项目不存在")
	ErrEscrowNotFound  = errors.New("托管实例不存在")
)

// EscrowLogic 托管操作业务逻辑
type EscrowLogic struct {
	db       *gorm.DB
	registry *registry.Registry
}

// NewEscrowLogic 创建托管操作业务逻辑
func NewEscrowLogic(db *gorm.DB, reg *registry.Registry) *EscrowLogic {
	return &EscrowLogic{db: db, registry: reg}
}

// Contribute 接受贡献并记录
func (l *EscrowLogic) Contribute(projectId int64, address, amount string) error {
	addr, err := parseAddress(address)
	if err != nil {
		return err
	}
	value, err := parseAmount(amount)
	if err != nil {
		return fmt.Errorf("贡献金额无效: %w", err)
	}

	project, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return err
	}

	before := len(entry.Escrow.RewardsOf(addr))
	if err := entry.Escrow.AcceptBacker(addr, value); err != nil {
		return err
	}

	record := &model.ContributeRecordModel{
		ProjectId: projectId,
		Amount:    value.String(),
		Address:   addr.Hex(),
	}
	if rewards := entry.Escrow.RewardsOf(addr); len(rewards) > before {
		tokenId := rewards[len(rewards)-1].TokenId
		record.TokenId = &tokenId
	}
	if err := l.db.Create(record).Error; err != nil {
		return fmt.Errorf("保存贡献记录失败: %w", err)
	}

	return syncProject(l.db, project, entry.Escrow)
}

// Refund 贡献者退款并记录
// tierAmount为空或0时销毁全部奖励（仅Started分支会销毁）
func (l *EscrowLogic) Refund(projectId int64, address, tierAmount string) error {
	addr, err := parseAddress(address)
	if err != nil {
		return err
	}
	var tier *big.Int
	if tierAmount != "" {
		if tier, err = parseAmountAllowZero(tierAmount); err != nil {
			return fmt.Errorf("档位金额无效: %w", err)
		}
	}

	project, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return err
	}

	phase := entry.Escrow.Status()
	contribution := entry.Escrow.ContributionOf(addr)
	if err := entry.Escrow.WithdrawRefund(addr, tier); err != nil {
		return err
	}

	released := entry.Escrow.ReleasedPercent()
	refund := new(big.Int).Mul(contribution, big.NewInt(100-released))
	refund.Div(refund, big.NewInt(100))

	record := &model.RefundRecordModel{
		ProjectId: projectId,
		Amount:    refund.String(),
		Address:   addr.Hex(),
		Phase:     string(phase),
	}
	if err := l.db.Create(record).Error; err != nil {
		return fmt.Errorf("保存退款记录失败: %w", err)
	}

	return syncProject(l.db, project, entry.Escrow)
}

// Vote 投取消票或撤回
func (l *EscrowLogic) Vote(projectId int64, address string, cancel bool) error {
	addr, err := parseAddress(address)
	if err != nil {
		return err
	}

	_, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return err
	}

	if err := entry.Escrow.Vote(addr, cancel); err != nil {
		return err
	}

	record := &model.VoteRecordModel{
		ProjectId: projectId,
		Address:   addr.Hex(),
		Cancel:    cancel,
		Weight:    entry.Escrow.ContributionOf(addr).String(),
	}
	return l.db.Save(upsertVote(l.db, record)).Error
}

// AssignTiers 创建者配置贡献档位
func (l *EscrowLogic) AssignTiers(projectId int64, caller string, amounts, handles []string, maxBackers []int) error {
	addr, err := parseAddress(caller)
	if err != nil {
		return err
	}
	values := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		if values[i], err = parseAmount(a); err != nil {
			return fmt.Errorf("第%d个档位金额无效: %w", i+1, err)
		}
	}

	project, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return err
	}

	if err := entry.Escrow.AssignTiers(addr, values, handles, maxBackers); err != nil {
		return err
	}
	return syncTiers(l.db, project.Id, entry.Escrow)
}

// Withdraw 创建者提取已释放资金
func (l *EscrowLogic) Withdraw(projectId int64, caller string) error {
	addr, err := parseAddress(caller)
	if err != nil {
		return err
	}

	project, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return err
	}

	if err := entry.Escrow.WithdrawFunds(addr); err != nil {
		return err
	}
	return syncProject(l.db, project, entry.Escrow)
}

// Backer 某地址在项目里的贡献、投票与奖励
func (l *EscrowLogic) Backer(projectId int64, address string) (map[string]interface{}, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	_, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"address":      addr.Hex(),
		"contribution": entry.Escrow.ContributionOf(addr).String(),
		"cancel_vote":  entry.Escrow.VoteOf(addr),
		"rewards":      entry.Escrow.RewardsOf(addr),
	}, nil
}

// Detail 托管实例的实时状态
func (l *EscrowLogic) Detail(projectId int64) (map[string]interface{}, error) {
	_, entry, err := findEscrow(l.db, l.registry, projectId)
	if err != nil {
		return nil, err
	}
	e := entry.Escrow

	return map[string]interface{}{
		"escrow_id":         entry.Id,
		"escrow_account":    entry.Account.Hex(),
		"creator":           e.Creator().Hex(),
		"status":            e.Status(),
		"funding_goal":      e.FundingGoal().String(),
		"total_contributed": e.TotalContributed().String(),
		"withdrawable":      e.WithdrawableFunds().String(),
		"released_percent":  e.ReleasedPercent(),
		"current_milestone": e.CurrentMilestone(),
		"cancel_tally":      e.CancelTally().String(),
		"start_time":        e.StartTime(),
		"milestones":        e.Milestones(),
		"tiers":             e.Tiers(),
	}, nil
}

// Crank 推进一个项目的时间门控转换
// Started时尝试募集结算，Funded时尝试里程碑检查；未到期直接跳过，
// 发生转换时返回true并同步数据库
func (l *EscrowLogic) Crank(project *model.ProjectModel) (bool, error) {
	entry, ok := l.registry.Get(project.EscrowId)
	if !ok {
		return false, ErrEscrowNotFound
	}

	var err error
	switch entry.Escrow.Status() {
	case escrow.StatusStarted:
		err = entry.Escrow.CheckFundingSuccess()
	case escrow.StatusFunded:
		err = entry.Escrow.MilestoneCheck()
	default:
		return false, nil
	}

	if errors.Is(err, escrow.ErrTooEarly) || errors.Is(err, escrow.ErrWrongPhase) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, syncProject(l.db, project, entry.Escrow)
}

// findEscrow 按项目id找到项目行和对应的托管实例
func findEscrow(db *gorm.DB, reg *registry.Registry, projectId int64) (*model.ProjectModel, *registry.Entry, error) {
	var project model.ProjectModel
	if err := db.First(&project, projectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("获取项目失败: %w", err)
	}

	entry, ok := reg.Get(project.EscrowId)
	if !ok {
		return nil, nil, ErrEscrowNotFound
	}
	return &project, entry, nil
}

// syncProject 把托管实例的实时状态同步回项目行和里程碑表
func syncProject(db *gorm.DB, project *model.ProjectModel, e *escrow.Escrow) error {
	updates := map[string]interface{}{
		"status":            string(e.Status()),
		"total_contributed": e.TotalContributed().String(),
		"withdrawable":      e.WithdrawableFunds().String(),
		"released_percent":  e.ReleasedPercent(),
		"current_milestone": e.CurrentMilestone(),
	}
	if err := db.Model(project).Updates(updates).Error; err != nil {
		return fmt.Errorf("同步项目状态失败: %w", err)
	}

	for i, m := range e.Milestones() {
		err := db.Model(&model.MilestoneModel{}).
			Where("project_id = ? AND idx = ?", project.Id, i).
			Update("votes_against", m.VotesAgainst.String()).Error
		if err != nil {
			return fmt.Errorf("同步里程碑失败: %w", err)
		}
	}
	return syncTiers(db, project.Id, e)
}

// syncTiers 全量重写档位表
func syncTiers(db *gorm.DB, projectId int64, e *escrow.Escrow) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectId).Delete(&model.TierModel{}).Error; err != nil {
			return fmt.Errorf("清理档位失败: %w", err)
		}
		for _, t := range e.Tiers() {
			row := &model.TierModel{
				ProjectId:      projectId,
				Amount:         t.Amount.String(),
				RewardHandle:   t.RewardHandle,
				MaxBackers:     t.MaxBackers,
				CurrentBackers: t.CurrentBackers,
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("保存档位失败: %w", err)
			}
		}
		return nil
	})
}

// upsertVote 查到已有投票则复用主键，Save变成更新
func upsertVote(db *gorm.DB, record *model.VoteRecordModel) *model.VoteRecordModel {
	var existing model.VoteRecordModel
	err := db.Where("project_id = ? AND address = ?", record.ProjectId, record.Address).
		First(&existing).Error
	if err == nil {
		record.Id = existing.Id
		record.CreatedAt = existing.CreatedAt
	}
	return record
}

// parseAddress 解析十六进制地址
func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: 地址格式无效: %s", escrow.ErrInvalidArgument, s)
	}
	return common.HexToAddress(s), nil
}

// parseAmount 解析十进制金额，必须为正
func parseAmount(s string) (*big.Int, error) {
	v, err := parseAmountAllowZero(s)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("%w: 金额必须大于0", escrow.ErrInvalidArgument)
	}
	return v, nil
}

// parseAmountAllowZero 解析十进制金额，允许为0
func parseAmountAllowZero(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: 金额格式无效: %s", escrow.ErrInvalidArgument, s)
	}
	return v, nil
}
