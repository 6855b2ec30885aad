package handler

import (
	"net/http"

	"github.com/booster-finance/bes/internal/logic"
	"github.com/booster-finance/bes/internal/registry"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EscrowHandler struct {
	escrowLogic *logic.EscrowLogic
}

func NewEscrowHandler(db *gorm.DB, reg *registry.Registry) *EscrowHandler {
	return &EscrowHandler{
		escrowLogic: logic.NewEscrowLogic(db, reg),
	}
}

// Contribute 贡献
func (h *EscrowHandler) Contribute(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.escrowLogic.Contribute(id, req.Address, req.Amount); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "贡献成功", nil)
}

// Refund 退款
func (h *EscrowHandler) Refund(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.escrowLogic.Refund(id, req.Address, req.TierAmount); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "退款成功", nil)
}

// Vote 投票
func (h *EscrowHandler) Vote(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.escrowLogic.Vote(id, req.Address, *req.Cancel); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "投票成功", nil)
}

// AssignTiers 配置贡献档位
func (h *EscrowHandler) AssignTiers(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	var req AssignTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.escrowLogic.AssignTiers(id, req.Caller, req.Amounts, req.RewardHandles, req.MaxBackers); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "档位配置成功", nil)
}

// Withdraw 创建者提取已释放资金
func (h *EscrowHandler) Withdraw(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.escrowLogic.Withdraw(id, req.Caller); err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "提款成功", nil)
}

// GetEscrow 托管实例的实时状态
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	detail, err := h.escrowLogic.Detail(id)
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", detail)
}

// GetBacker 某地址的贡献、投票与奖励
func (h *EscrowHandler) GetBacker(c *gin.Context) {
	id, err := parseId(c)
	if err != nil {
		return
	}

	backer, err := h.escrowLogic.Backer(id, c.Param("address"))
	if err != nil {
		FailWith(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", backer)
}
