package controller

import (
	"portal-assistant-be/internal/dto"
	"portal-assistant-be/internal/pkg/serverutils"
	"portal-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITutorialController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Publish(ctx *fiber.Ctx) error
	Unpublish(ctx *fiber.Ctx) error
}

type tutorialController struct {
	tutorialService service.ITutorialService
}

func NewTutorialController(tutorialService service.ITutorialService) ITutorialController {
	return &tutorialController{
		tutorialService: tutorialService,
	}
}

func (c *tutorialController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tutorial/v1")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/publish", c.Publish)
	h.Post(":id/unpublish", c.Unpublish)
}

func (c *tutorialController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTutorialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tutorialService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create tutorial", res))
}

func (c *tutorialController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.tutorialService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tutorials", res))
}

func (c *tutorialController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutorial id")
	}

	res, err := c.tutorialService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "tutorial not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show tutorial", res))
}

func (c *tutorialController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutorial id")
	}

	var req dto.UpdateTutorialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.tutorialService.Update(ctx.Context(), id, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update tutorial", nil))
}

func (c *tutorialController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutorial id")
	}

	if err := c.tutorialService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete tutorial", nil))
}

func (c *tutorialController) Publish(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutorial id")
	}

	if err := c.tutorialService.Publish(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success publish tutorial", nil))
}

func (c *tutorialController) Unpublish(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tutorial id")
	}

	if err := c.tutorialService.Unpublish(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success unpublish tutorial", nil))
}
