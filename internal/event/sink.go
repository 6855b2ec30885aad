package event

import (
	"fmt"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// Recorder 审计事件存储
type Recorder interface {
	Save(escrow.Event) error
}

// AsyncSink 审计事件汇
// 通过协程池异步落库，核心逻辑从不因事件记录而阻塞或失败
type AsyncSink struct {
	pool     *ants.Pool
	recorder Recorder
}

// NewAsyncSink 创建事件汇
func NewAsyncSink(poolSize int, recorder Recorder) (*AsyncSink, error) {
	if poolSize <= 0 {
		poolSize = 4
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create event pool: %w", err)
	}
	return &AsyncSink{pool: pool, recorder: recorder}, nil
}

// Record 投递事件
// 协程池投递失败时退化为同步保存，保存失败只记日志
func (s *AsyncSink) Record(ev escrow.Event) {
	err := s.pool.Submit(func() {
		s.save(ev)
	})
	if err != nil {
		logger.Warn("Failed to submit event to pool, saving synchronously: %v", err)
		s.save(ev)
	}
}

// Close 释放协程池
func (s *AsyncSink) Close() {
	s.pool.Release()
}

func (s *AsyncSink) save(ev escrow.Event) {
	if err := s.recorder.Save(ev); err != nil {
		logger.Error("Failed to save audit event %s from %s: %v", ev.Type, ev.Actor.Hex(), err)
	}
}
