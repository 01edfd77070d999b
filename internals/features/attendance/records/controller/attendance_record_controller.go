package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/attendance/records/dto"
	"gerejaku_backend/internals/features/attendance/records/model"
	"gerejaku_backend/internals/features/attendance/records/service"
	eventService "gerejaku_backend/internals/features/events/event/service"
	memberService "gerejaku_backend/internals/features/members/member/service"
	helper "gerejaku_backend/internals/helpers"
)

type AttendanceRecordController struct {
	DB       *gorm.DB
	service  *service.AttendanceService
	events   *eventService.EventService
	members  *memberService.MemberService
	validate *validator.Validate
}

func NewAttendanceRecordController(db *gorm.DB) *AttendanceRecordController {
	return &AttendanceRecordController{
		DB:       db,
		service:  service.NewAttendanceService(),
		events:   eventService.NewEventService(),
		members:  memberService.NewMemberService(),
		validate: validator.New(),
	}
}

/* ===================== CHECK-IN ===================== */
// POST /api/attendance
func (ctrl *AttendanceRecordController) CreateAttendance(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if (req.MemberID == nil) == (req.VisitorID == nil) {
		return fiber.NewError(fiber.StatusBadRequest, "Exactly one of member_id or visitor_id is required")
	}
	if req.VisitorID != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Visitor check-in goes through the visitor endpoint")
	}

	if _, err := ctrl.events.GetEvent(ctrl.DB, churchID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, service.ErrEventNotFound.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	date := time.Now()
	if req.AttendanceDate != nil {
		date = *req.AttendanceDate
	}
	method := req.CheckInMethod
	if method == "" {
		method = model.CheckInMethodManual
	}

	rec, dup, err := ctrl.service.CheckInMember(ctrl.DB, churchID, *req.MemberID, req.EventID, date, method)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Check-in failed")
	}
	if dup {
		return helper.DuplicateCheckIn(c, dto.NewAttendanceRecordResponse(*rec))
	}

	return helper.JsonCreated(c, "Checked in", dto.NewAttendanceRecordResponse(*rec))
}

/* ===================== FINGERPRINT ===================== */
// POST /api/fingerprint/scan
// A miss is not an error: the kiosk gets member:null plus the scanned
// identifier back and offers the enroll-then-checkin recovery flow.
func (ctrl *AttendanceRecordController) FingerprintScan(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.FingerprintScanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mbr, err := ctrl.members.FindByFingerprint(ctrl.DB, churchID, req.FingerprintID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if mbr == nil {
		return helper.JsonOK(c, "Fingerprint not recognized",
			dto.NewFingerprintCheckInResponse(nil, nil, req.FingerprintID, false))
	}

	if _, err := ctrl.events.GetEvent(ctrl.DB, churchID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, service.ErrEventNotFound.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	rec, dup, err := ctrl.service.CheckInMember(ctrl.DB, churchID, mbr.MemberID, req.EventID, time.Now(), model.CheckInMethodFingerprint)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Check-in failed")
	}

	resp := dto.NewFingerprintCheckInResponse(rec, mbr, req.FingerprintID, dup)
	if dup {
		return helper.DuplicateCheckIn(c, resp)
	}
	return helper.JsonCreated(c, "Checked in", resp)
}

// POST /api/fingerprint/enroll
// Assigns the scanned identifier to the chosen member (rejecting ids
// already owned by someone else) and checks them in immediately.
func (ctrl *AttendanceRecordController) EnrollFingerprint(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.EnrollFingerprintRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	mbr, err := ctrl.members.GetMember(ctrl.DB, churchID, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	scanned := ""
	if req.FingerprintID != nil && *req.FingerprintID != "" {
		scanned = *req.FingerprintID
		owner, err := ctrl.members.FindByFingerprint(ctrl.DB, churchID, scanned)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if owner != nil && owner.MemberID != mbr.MemberID {
			return fiber.NewError(fiber.StatusConflict, "Fingerprint is already enrolled to another member")
		}
		if err := ctrl.DB.Model(mbr).Update("member_fingerprint_id", scanned).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Fingerprint is already enrolled to another member")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to enroll fingerprint")
		}
		mbr.MemberFingerprintID = &scanned
	}

	if _, err := ctrl.events.GetEvent(ctrl.DB, churchID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, service.ErrEventNotFound.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	rec, dup, err := ctrl.service.CheckInMember(ctrl.DB, churchID, mbr.MemberID, req.EventID, time.Now(), model.CheckInMethodFingerprint)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Check-in failed")
	}

	resp := dto.NewFingerprintCheckInResponse(rec, mbr, scanned, dup)
	if dup {
		return helper.DuplicateCheckIn(c, resp)
	}
	return helper.JsonCreated(c, "Fingerprint enrolled and checked in", resp)
}

/* ===================== FAMILY ===================== */
// POST /api/attendance/selective-family-checkin
func (ctrl *AttendanceRecordController) SelectiveFamilyCheckIn(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.SelectiveFamilyCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctrl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if _, err := ctrl.events.GetEvent(ctrl.DB, churchID, req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, service.ErrEventNotFound.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	statuses, err := ctrl.service.SelectiveFamilyCheckIn(ctrl.DB, churchID, req.ParentID, req.ChildrenIDs, req.EventID, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Parent not found in this church")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Family check-in failed")
	}

	return helper.JsonCreated(c, "Family check-in processed", dto.NewFamilyCheckInResponse(statuses))
}

/* ===================== TODAY ===================== */
// GET /api/attendance/today
func (ctrl *AttendanceRecordController) GetTodayAttendance(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	records, err := ctrl.service.RecordsForDate(ctrl.DB, churchID, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch today's attendance")
	}

	return helper.JsonOK(c, "OK", dto.NewAttendanceRecordResponses(records))
}

/* ===================== HISTORY ===================== */
// GET /api/attendance/history?start_date=&end_date=&event_id=&method=&is_guest=
func (ctrl *AttendanceRecordController) GetAttendanceHistory(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 50, 500)

	var filter service.HistoryFilter
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		filter.EndDate = &t
	}
	if raw := c.Query("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid event_id")
		}
		filter.EventID = &id
	}
	filter.Method = c.Query("method")
	if raw := c.Query("is_guest"); raw != "" {
		guest := raw == "true" || raw == "1"
		filter.IsGuest = &guest
	}

	records, total, err := ctrl.service.History(ctrl.DB, churchID, filter, paging.Limit, paging.Offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance history")
	}

	return helper.JsonList(c, "OK", dto.NewAttendanceRecordResponses(records),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ===================== DELETE ===================== */
// DELETE /api/attendance/:id
func (ctrl *AttendanceRecordController) DeleteAttendance(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid record id")
	}

	if err := ctrl.service.DeleteRecord(ctrl.DB, churchID, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Attendance record not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete attendance record")
	}

	return helper.JsonDeleted(c, "Attendance record deleted", fiber.Map{"attendance_record_id": recordID})
}
