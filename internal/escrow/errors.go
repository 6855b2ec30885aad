package escrow

import "errors"

// 所有前置条件错误都以哨兵错误区分种类，调用方通过 errors.Is 判断，
// 不依赖错误文本
var (
	ErrWrongPhase            = errors.New("当前阶段不允许该操作")
	ErrNotCreator            = errors.New("调用者不是项目创建者")
	ErrNotBacker             = errors.New("调用者没有有效贡献")
	ErrTooEarly              = errors.New("未到允许操作的时间")
	ErrTooLate               = errors.New("已过允许操作的时间")
	ErrInvalidArgument       = errors.New("参数无效")
	ErrInsufficientAllowance = errors.New("授权额度不足")
	ErrUnchangedVote         = errors.New("重复投相同的票")
	ErrInvalidSchedule       = errors.New("里程碑排期无效")
	ErrAlreadyRefunded       = errors.New("已经退款")
	ErrTransferFailed        = errors.New("资金划转失败")
)
