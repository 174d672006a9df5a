package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/pkg/serverutils"
	"ai-productforge-be/internal/service"
)

type IDesignController interface {
	RegisterRoutes(r fiber.Router)
	CurrentStep(ctx *fiber.Ctx) error
	SubmitStep(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
}

type designController struct {
	service service.IDesignService
}

func NewDesignController(service service.IDesignService) IDesignController {
	return &designController{service: service}
}

func (c *designController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/design/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/:projectId/step", c.CurrentStep)
	h.Post("/:projectId/select", c.SubmitStep)
	h.Get("/:projectId/summary", c.Summary)
}

func (c *designController) CurrentStep(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := uuid.Parse(ctx.Params("projectId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	res, err := c.service.CurrentStep(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Design step", res))
}

func (c *designController) SubmitStep(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := uuid.Parse(ctx.Params("projectId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	var req dto.SubmitDesignStepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.ProjectId = projectId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitStep(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Design step submitted", res))
}

func (c *designController) Summary(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := uuid.Parse(ctx.Params("projectId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	res, err := c.service.Summary(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Design summary", res))
}
