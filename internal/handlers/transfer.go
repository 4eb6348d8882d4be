package handlers

import (
	"errors"
	"log"

	"ledgerpay/internal/models"
	"ledgerpay/internal/services/transfer"
	"ledgerpay/internal/utils"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler exposes the transfer execution endpoint.
type TransferHandler struct {
	service transfer.Service
}

func NewTransferHandler(s transfer.Service) *TransferHandler {
	return &TransferHandler{service: s}
}

// CreateTransfer handles POST /transfers. The authenticated caller may
// only move funds out of their own account. Success is 204 with an
// empty body.
func (h *TransferHandler) CreateTransfer(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		FromID string `json:"fromId"`
		ToID   string `json:"toId"`
		Amount int64  `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.TransferInput(req.FromID, req.ToID, req.Amount)
	if !v.Valid() {
		return utils.BadRequest(c, v.First())
	}

	if req.FromID != claims.UserID {
		return utils.Forbidden(c, "cannot transfer from another user's account")
	}

	err := h.service.Execute(c.Context(), transfer.Request{
		FromID: req.FromID,
		ToID:   req.ToID,
		Amount: req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrSameUser):
			return utils.BadRequest(c, transfer.ErrSameUser.Error())
		case errors.Is(err, transfer.ErrInvalidAmount):
			return utils.BadRequest(c, transfer.ErrInvalidAmount.Error())
		case errors.Is(err, transfer.ErrInsufficientBalance):
			return utils.BadRequest(c, transfer.ErrInsufficientBalance.Error())
		case errors.Is(err, transfer.ErrUserNotFound):
			return utils.NotFound(c, transfer.ErrUserNotFound.Error())
		case errors.Is(err, transfer.ErrConflict):
			return utils.Conflict(c, transfer.ErrConflict.Error())
		default:
			log.Printf("transfer failed: %v", err)
			return utils.InternalError(c, "transfer failed")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
