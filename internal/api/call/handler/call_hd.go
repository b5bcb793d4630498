package callHandler

import (
	"ProjectRiya/internal/api/call"
	contextPkg "ProjectRiya/pkg/context"
	"ProjectRiya/pkg/handlerUtil"
	jwtPkg "ProjectRiya/pkg/jwt"
	"ProjectRiya/pkg/log"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *CallHandler) StartCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing start call request")

	operatorData, err := jwtPkg.GetOperatorData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req call.StartCallRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.callService.StartCall(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_call")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"call_id":    response.CallID,
		"operator":   operatorData.Username,
	}).Info("Call started by operator")

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, response)
	}
}

func (h *CallHandler) GetCalls(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing get calls request")

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	records, total, err := h.callService.GetCalls(c, page, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_calls")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"calls": records,
			"total": total,
			"page":  page,
			"limit": limit,
		})
	}
}

func (h *CallHandler) GetCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing get call request")

	callID := ctx.Params("call_id")
	if callID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("call_id is required"), ctx.Path())
	}

	response, err := h.callService.GetCall(c, callID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_call")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

func (h *CallHandler) GetCallResult(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing get call result request")

	callID := ctx.Params("call_id")
	if callID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("call_id is required"), ctx.Path())
	}

	result, err := h.callService.GetCallResult(c, callID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_call_result")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *CallHandler) EndCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing end call request")

	operatorData, err := jwtPkg.GetOperatorData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	callID := ctx.Params("call_id")
	if callID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("call_id is required"), ctx.Path())
	}

	if err := h.callService.EndCall(c, callID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "end_call")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"call_id":    callID,
		"operator":   operatorData.Username,
	}).Info("Call ended by operator")

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Call ended successfully",
		})
	}
}

func (h *CallHandler) DeleteCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing delete call request")

	operatorData, err := jwtPkg.GetOperatorData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	callID := ctx.Params("call_id")
	if callID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("call_id is required"), ctx.Path())
	}

	if err := h.callService.DeleteCall(c, callID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_call")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"call_id":    callID,
		"operator":   operatorData.Username,
	}).Info("Call deleted by operator")

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Call deleted successfully",
		})
	}
}

func (h *CallHandler) TestExtraction(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing test extraction request")

	var req call.ExtractionTestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.callService.TestExtraction(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "test_extraction")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}
