package controller

import (
	"portal-assistant-be/internal/pkg/serverutils"
	"portal-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Sync(ctx *fiber.Ctx) error
	Index(ctx *fiber.Ctx) error
	Section(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Post("sync", c.Sync)
	h.Get("index", c.Index)
	h.Get("section", c.Section)
}

func (c *knowledgeController) Sync(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Sync(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success sync knowledge", res))
}

func (c *knowledgeController) Index(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Index(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge index", res))
}

func (c *knowledgeController) Section(ctx *fiber.Ctx) error {
	title := ctx.Query("title")
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	res, err := c.knowledgeService.Section(ctx.Context(), title, ctx.Query("language"))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "section not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge section", res))
}
