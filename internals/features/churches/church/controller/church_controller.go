package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/churches/church/dto"
	"gerejaku_backend/internals/features/churches/church/model"
	helper "gerejaku_backend/internals/helpers"
)

type ChurchController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewChurchController(db *gorm.DB) *ChurchController {
	return &ChurchController{DB: db, validate: validator.New()}
}

/* ===================== CREATE ===================== */
// POST /api/churches (owner only)
func (ctrl *ChurchController) CreateChurch(c *fiber.Ctx) error {
	var req dto.CreateChurchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mdl := req.ToModel()
	if err := ctrl.DB.Create(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "Slug already in use")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create church")
	}

	return helper.JsonCreated(c, "Church created", dto.NewChurchResponse(mdl))
}

/* ===================== LIST ===================== */
// GET /api/churches (owner only)
func (ctrl *ChurchController) ListChurches(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 200)

	var total int64
	if err := ctrl.DB.Model(&model.ChurchModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list churches")
	}

	var churches []model.ChurchModel
	if err := ctrl.DB.Order("church_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&churches).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list churches")
	}

	return helper.JsonList(c, "OK", dto.NewChurchResponses(churches),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ===================== DETAIL ===================== */
// GET /api/churches/:id
func (ctrl *ChurchController) GetChurch(c *fiber.Ctx) error {
	churchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid church id")
	}

	var mdl model.ChurchModel
	if err := ctrl.DB.Where("church_id = ?", churchID).First(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Church not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.NewChurchResponse(mdl))
}

/* ===================== UPDATE ===================== */
// PUT /api/churches/:id
func (ctrl *ChurchController) UpdateChurch(c *fiber.Ctx) error {
	churchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid church id")
	}

	var req dto.UpdateChurchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var mdl model.ChurchModel
	if err := ctrl.DB.Where("church_id = ?", churchID).First(&mdl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Church not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	req.ApplyToModel(&mdl)
	if err := ctrl.DB.Save(&mdl).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update church")
	}

	return helper.JsonUpdated(c, "Church updated", dto.NewChurchResponse(mdl))
}

/* ===================== DELETE ===================== */
// DELETE /api/churches/:id (soft delete)
func (ctrl *ChurchController) DeleteChurch(c *fiber.Ctx) error {
	churchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid church id")
	}

	res := ctrl.DB.Where("church_id = ?", churchID).Delete(&model.ChurchModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete church")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Church not found")
	}

	return helper.JsonDeleted(c, "Church deleted", fiber.Map{"church_id": churchID})
}
