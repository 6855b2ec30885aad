package event

import (
	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/model"
	"gorm.io/gorm"
)

// DBRecorder 把审计事件写入event表
type DBRecorder struct {
	db *gorm.DB
}

// NewDBRecorder 创建数据库存储
func NewDBRecorder(db *gorm.DB) *DBRecorder {
	return &DBRecorder{db: db}
}

// Save 落库一条审计事件
func (r *DBRecorder) Save(ev escrow.Event) error {
	record := &model.EventModel{
		EscrowAccount: ev.Account.Hex(),
		EventType:     string(ev.Type),
		Actor:         ev.Actor.Hex(),
		Status:        string(ev.Status),
		OccurredAt:    ev.Time,
	}
	if ev.Amount != nil {
		record.Amount = ev.Amount.String()
	}
	return r.db.Create(record).Error
}
