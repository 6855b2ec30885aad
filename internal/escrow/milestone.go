package escrow

import (
	"fmt"
	"math/big"
	"time"
)

// Milestone 里程碑：到期时间、释放比例和按权重累计的反对票
type Milestone struct {
	ReleaseDate    time.Time `json:"release_date"`
	ReleasePercent int64     `json:"release_percent"`
	VotesAgainst   *big.Int  `json:"votes_against"`
}

// Schedule 里程碑排期，构造时校验一次，之后不可变
type Schedule struct {
	milestones []Milestone
}

// NewSchedule 构造里程碑排期
// 校验规则：日期与比例数量一致且非空，比例在0-100之间且总和为100，
// 日期严格递增且首个日期严格晚于startTime。校验失败的排期无法创建实例
func NewSchedule(startTime time.Time, dates []time.Time, percents []int64) (*Schedule, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: 至少需要一个里程碑", ErrInvalidSchedule)
	}
	if len(dates) != len(percents) {
		return nil, fmt.Errorf("%w: 日期与比例数量不一致 (%d != %d)", ErrInvalidSchedule, len(dates), len(percents))
	}

	var sum int64
	prev := startTime
	for i := range dates {
		if percents[i] < 0 || percents[i] > 100 {
			return nil, fmt.Errorf("%w: 第%d个释放比例超出0-100", ErrInvalidSchedule, i+1)
		}
		if !dates[i].After(prev) {
			return nil, fmt.Errorf("%w: 第%d个里程碑日期必须严格晚于前一个", ErrInvalidSchedule, i+1)
		}
		prev = dates[i]
		sum += percents[i]
	}
	if sum != 100 {
		return nil, fmt.Errorf("%w: 释放比例总和必须为100，当前为%d", ErrInvalidSchedule, sum)
	}

	milestones := make([]Milestone, len(dates))
	for i := range dates {
		milestones[i] = Milestone{
			ReleaseDate:    dates[i],
			ReleasePercent: percents[i],
			VotesAgainst:   new(big.Int),
		}
	}
	return &Schedule{milestones: milestones}, nil
}

// Len 里程碑数量
func (s *Schedule) Len() int {
	return len(s.milestones)
}

// At 获取第i个里程碑
func (s *Schedule) At(i int) Milestone {
	return s.milestones[i]
}

// Milestones 返回全部里程碑的副本
func (s *Schedule) Milestones() []Milestone {
	out := make([]Milestone, len(s.milestones))
	for i, m := range s.milestones {
		out[i] = Milestone{
			ReleaseDate:    m.ReleaseDate,
			ReleasePercent: m.ReleasePercent,
			VotesAgainst:   new(big.Int).Set(m.VotesAgainst),
		}
	}
	return out
}

// recordVotes 记录某个里程碑检查时的反对票权重快照
// 仅用于追踪，不参与门控
func (s *Schedule) recordVotes(i int, tally *big.Int) {
	s.milestones[i].VotesAgainst = new(big.Int).Set(tally)
}
