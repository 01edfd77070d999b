package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/members/member/dto"
	"gerejaku_backend/internals/features/members/member/model"
	"gerejaku_backend/internals/features/members/member/service"
	helper "gerejaku_backend/internals/helpers"
)

type MemberController struct {
	DB       *gorm.DB
	service  *service.MemberService
	validate *validator.Validate
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{
		DB:       db,
		service:  service.NewMemberService(),
		validate: validator.New(),
	}
}

/* ===================== CREATE ===================== */
// POST /api/members
func (ctrl *MemberController) CreateMember(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mdl := req.ToModel(churchID)
	if err := ctrl.service.CreateMember(ctrl.DB, &mdl); err != nil {
		if errors.Is(err, service.ErrAdultPhoneRequired) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create member")
	}

	return helper.JsonCreated(c, "Member registered", dto.NewMemberResponse(mdl))
}

/* ===================== SEARCH / LIST ===================== */
// GET /api/members?search=&group=
func (ctrl *MemberController) SearchMembers(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 25, 200)
	query := c.Query("search")
	ageGroup := c.Query("group")
	switch ageGroup {
	case "", model.AgeGroupChild, model.AgeGroupAdolescent, model.AgeGroupAdult:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown age group filter")
	}

	members, total, err := ctrl.service.SearchMembers(ctrl.DB, churchID, query, ageGroup, paging.Limit, paging.Offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to search members")
	}

	return helper.JsonList(c, "OK", dto.NewMemberResponses(members),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ===================== DETAIL ===================== */
// GET /api/members/:id
func (ctrl *MemberController) GetMember(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member id")
	}

	mdl, err := ctrl.service.GetMember(ctrl.DB, churchID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.NewMemberResponse(*mdl))
}

/* ===================== UPDATE (partial) ===================== */
// PUT /api/members/:id
func (ctrl *MemberController) UpdateMember(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member id")
	}

	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mdl, err := ctrl.service.GetMember(ctrl.DB, churchID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	req.ApplyToModel(mdl)
	if mdl.MemberAgeGroup == model.AgeGroupAdult && (mdl.MemberPhone == nil || *mdl.MemberPhone == "") {
		return fiber.NewError(fiber.StatusBadRequest, service.ErrAdultPhoneRequired.Error())
	}
	if err := ctrl.DB.Save(mdl).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update member")
	}

	return helper.JsonUpdated(c, "Member updated", dto.NewMemberResponse(*mdl))
}

/* ===================== CHILDREN ===================== */
// GET /api/members/:id/children
func (ctrl *MemberController) GetChildren(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	parentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member id")
	}

	children, err := ctrl.service.GetMembersByParent(ctrl.DB, churchID, parentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch children")
	}

	return helper.JsonOK(c, "OK", dto.NewMemberResponses(children))
}

/* ===================== PHOTO ===================== */
// POST /api/members/:id/photo (multipart, field "photo")
func (ctrl *MemberController) UploadPhoto(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid member id")
	}

	mdl, err := ctrl.service.GetMember(ctrl.DB, churchID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "photo file is required")
	}

	photoURL, err := helper.UploadImageToSupabase("members", fileHeader)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Photo upload failed")
	}

	mdl.MemberPhotoURL = &photoURL
	if err := ctrl.DB.Model(&model.MemberModel{}).
		Where("member_id = ?", mdl.MemberID).
		Update("member_photo_url", photoURL).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save photo URL")
	}

	return helper.JsonUpdated(c, "Photo updated", dto.NewMemberResponse(*mdl))
}
