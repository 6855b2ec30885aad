package handler

import (
	"errors"
	"net/http"

	"github.com/booster-finance/bes/internal/escrow"
	"github.com/booster-finance/bes/internal/logic"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// FailWith 按错误种类映射HTTP状态码
func FailWith(c *gin.Context, err error) {
	ErrorResponse(c, statusFor(err), err.Error())
}

// statusFor 错误种类到状态码的映射，调用方据此而不是错误文本判断
func statusFor(err error) int {
	switch {
	case errors.Is(err, logic.ErrProjectNotFound), errors.Is(err, logic.ErrEscrowNotFound):
		return http.StatusNotFound
	case errors.Is(err, escrow.ErrNotCreator), errors.Is(err, escrow.ErrNotBacker):
		return http.StatusForbidden
	case errors.Is(err, escrow.ErrWrongPhase),
		errors.Is(err, escrow.ErrTooEarly),
		errors.Is(err, escrow.ErrTooLate),
		errors.Is(err, escrow.ErrUnchangedVote),
		errors.Is(err, escrow.ErrAlreadyRefunded):
		return http.StatusConflict
	case errors.Is(err, escrow.ErrInvalidArgument),
		errors.Is(err, escrow.ErrInvalidSchedule),
		errors.Is(err, escrow.ErrInsufficientAllowance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
