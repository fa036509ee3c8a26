package commerceController

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services/commerce"
	"learnhub/utils"
	validators "learnhub/validators/commerceValidator"

	"github.com/gofiber/fiber/v2"
)

// PaymentReturn settles the gateway callback and always redirects the browser.
func (h *Handler) PaymentReturn(c *fiber.Ctx) error {
	q := middleware.Validated[validators.ReturnQuery](c, "validatedReturn")

	target, err := h.Payments.HandleReturn(c.UserContext(), commerce.ReturnQuery{
		ResponseCode: q.ResponseCode,
		TxnRef:       q.TxnRef,
		BankCode:     q.BankCode,
		Amount:       q.Amount,
	})
	if err != nil {
		if log, ok := c.Locals("logger").(*logger.Logger); ok {
			log.Error("payment return failed", "txn_ref", q.TxnRef, "error", err)
		}
	}
	return c.Redirect(target, fiber.StatusFound)
}

func (h *Handler) GetPayments(c *fiber.Ctx) error {
	page, err := h.Payments.List(c.UserContext(), utils.PageFromQuery(c, 10))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", page)
}

func (h *Handler) GetPayment(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	payment, err := h.Payments.Get(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment fetched successfully!", payment)
}

func (h *Handler) DeletePayment(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Payments.Delete(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment deleted successfully!", nil)
}

// GetRevenueStats reads optional ?from and ?to dates.
func (h *Handler) GetRevenueStats(c *fiber.Ctx) error {
	from, err := utils.QueryDate(c, "from", false)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid from date!", nil)
	}
	to, err := utils.QueryDate(c, "to", true)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid to date!", nil)
	}

	stats, err := h.Payments.RevenueStats(c.UserContext(), from, to)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Revenue stats fetched successfully!", stats)
}
