package handlers

import (
	"darna/internal/i18n"
	"darna/internal/models"
	"darna/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ServiceTypeView is a service type with the catalog buckets it belongs to.
type ServiceTypeView struct {
	models.ServiceType
	Tags []string `json:"tags"`
}

// CatalogHandler serves the service catalog and its admin writes.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/service-types", h.HandleListServiceTypes)
	catalogRoutes.Get("/service-types/:id", h.HandleGetServiceType)
	catalogRoutes.Get("/buckets", h.HandleBuckets)
	router.Get("/security-roles", h.HandleSecurityRoles)
}

// RegisterAdminRoutes registers the catalog writes on an admin-guarded router.
func (h *CatalogHandler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Post("/service-types", h.HandleCreateServiceType)
	admin.Put("/service-types/:id", h.HandleUpdateServiceType)
	admin.Delete("/service-types/:id", h.HandleDeleteServiceType)
	admin.Post("/menages", h.HandleCreateMenage)
	admin.Post("/security-roles", h.HandleCreateSecurityRole)
}

// HandleListServiceTypes lists the catalog, optionally restricted to ?bucket=.
func (h *CatalogHandler) HandleListServiceTypes(c *fiber.Ctx) error {
	bucket := c.Query("bucket")
	types, err := h.service.Bucket(bucket)
	if err != nil {
		return serviceError(c, err)
	}
	snap, err := h.service.Load()
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]ServiceTypeView, 0, len(types))
	for _, st := range types {
		tags := snap.Tags[st.ID]
		if tags == nil {
			tags = []string{}
		}
		views = append(views, ServiceTypeView{ServiceType: st, Tags: tags})
	}
	return c.JSON(views)
}

// HandleGetServiceType returns one service type with its options.
func (h *CatalogHandler) HandleGetServiceType(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	st, err := h.service.ServiceType(id)
	if err != nil {
		return serviceError(c, err)
	}
	tags := h.service.Classifier().Tags(*st)
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(ServiceTypeView{ServiceType: *st, Tags: tags})
}

// HandleBuckets lists the catalog buckets with their sizes.
func (h *CatalogHandler) HandleBuckets(c *fiber.Ctx) error {
	counts, err := h.service.BucketCounts()
	if err != nil {
		return message(c, fiber.StatusServiceUnavailable, i18n.MsgLoadFailed, err)
	}
	return c.JSON(counts)
}

// HandleSecurityRoles lists the bookable security roles.
func (h *CatalogHandler) HandleSecurityRoles(c *fiber.Ctx) error {
	roles, err := h.service.SecurityRoles()
	if err != nil {
		return message(c, fiber.StatusServiceUnavailable, i18n.MsgLoadFailed, err)
	}
	return c.JSON(roles)
}

// HandleCreateServiceType adds a service type.
func (h *CatalogHandler) HandleCreateServiceType(c *fiber.Ctx) error {
	var st models.ServiceType
	if err := c.BodyParser(&st); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, st); !ok {
		return err
	}
	if err := h.service.CreateServiceType(&st); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

// HandleUpdateServiceType replaces a service type.
func (h *CatalogHandler) HandleUpdateServiceType(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	var st models.ServiceType
	if err := c.BodyParser(&st); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, st); !ok {
		return err
	}
	st.ID = id
	if err := h.service.UpdateServiceType(&st); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(st)
}

// HandleDeleteServiceType removes a service type.
func (h *CatalogHandler) HandleDeleteServiceType(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, i18n.MsgInvalidBody, err)
	}
	if err := h.service.DeleteServiceType(id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCreateMenage adds a top-level category.
func (h *CatalogHandler) HandleCreateMenage(c *fiber.Ctx) error {
	var m models.Menage
	if err := c.BodyParser(&m); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, m); !ok {
		return err
	}
	if err := h.service.CreateMenage(&m); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// HandleCreateSecurityRole adds a security role.
func (h *CatalogHandler) HandleCreateSecurityRole(c *fiber.Ctx) error {
	var role models.SecurityRole
	if err := c.BodyParser(&role); err != nil {
		return invalidBody(c, err)
	}
	if ok, err := validate(c, h.validate, role); !ok {
		return err
	}
	if err := h.service.CreateSecurityRole(&role); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}
