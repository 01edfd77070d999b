package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	eventModel "gerejaku_backend/internals/features/events/event/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	"gerejaku_backend/internals/features/reports/service"
	visitorModel "gerejaku_backend/internals/features/visitors/visitor/model"
	helper "gerejaku_backend/internals/helpers"
)

// ExportController streams CSV snapshots for offline processing. All
// exports are church-scoped and behind the same staff auth as the JSON
// endpoints.
type ExportController struct {
	DB         *gorm.DB
	reports    *service.ReportService
	attendance *attendanceService.AttendanceService
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{
		DB:         db,
		reports:    service.NewReportService(),
		attendance: attendanceService.NewAttendanceService(),
	}
}

func sendCSV(c *fiber.Ctx, filename string, write func(w *csv.Writer) error) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := write(w); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Export failed")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Export failed")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func uuidOrEmpty(p *uuid.UUID) string {
	if p == nil {
		return ""
	}
	return p.String()
}

// prayer points are stored as a JSON array of strings
func prayerPointsColumn(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return ""
	}
	var points []string
	if err := sonic.Unmarshal(raw, &points); err != nil {
		return string(raw)
	}
	return strings.Join(points, "; ")
}

/* ===================== MEMBERS ===================== */
// GET /api/export/members
func (ctrl *ExportController) ExportMembers(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var members []memberModel.MemberModel
	if err := ctrl.DB.
		Where("member_church_id = ?", churchID).
		Order("member_first_name ASC, member_surname ASC").
		Find(&members).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load members")
	}

	return sendCSV(c, "members.csv", func(w *csv.Writer) error {
		if err := w.Write([]string{"ID", "First Name", "Surname", "Gender", "Age Group", "Phone", "Email", "Address", "Parent ID", "Family Group", "Is Family Head", "Registered At"}); err != nil {
			return err
		}
		for _, mbr := range members {
			row := []string{
				mbr.MemberID.String(),
				mbr.MemberFirstName,
				mbr.MemberSurname,
				mbr.MemberGender,
				mbr.MemberAgeGroup,
				strOrEmpty(mbr.MemberPhone),
				strOrEmpty(mbr.MemberEmail),
				strOrEmpty(mbr.MemberAddress),
				uuidOrEmpty(mbr.MemberParentID),
				uuidOrEmpty(mbr.MemberFamilyGroupID),
				strconv.FormatBool(mbr.MemberIsFamilyHead),
				mbr.MemberCreatedAt.Format("2006-01-02"),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

/* ===================== VISITORS ===================== */
// GET /api/export/visitors
func (ctrl *ExportController) ExportVisitors(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var visitors []visitorModel.VisitorModel
	if err := ctrl.DB.
		Where("visitor_church_id = ?", churchID).
		Order("visitor_created_at DESC").
		Find(&visitors).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load visitors")
	}

	return sendCSV(c, "visitors.csv", func(w *csv.Writer) error {
		if err := w.Write([]string{"ID", "Name", "Gender", "Age Group", "Phone", "Address", "Prayer Points", "Follow Up Status", "Created At"}); err != nil {
			return err
		}
		for _, v := range visitors {
			row := []string{
				v.VisitorID.String(),
				v.VisitorName,
				v.VisitorGender,
				v.VisitorAgeGroup,
				strOrEmpty(v.VisitorPhone),
				strOrEmpty(v.VisitorAddress),
				prayerPointsColumn(v.VisitorPrayerPoints),
				v.VisitorFollowUpStatus,
				v.VisitorCreatedAt.Format("2006-01-02"),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

/* ===================== ATTENDANCE ===================== */
// GET /api/export/attendance?start_date=&end_date=
func (ctrl *ExportController) ExportAttendance(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	var filter attendanceService.HistoryFilter
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

	records, _, err := ctrl.attendance.History(ctrl.DB, churchID, filter, 100000, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance")
	}

	// resolve member demographics and event names in one pass each;
	// Unscoped so rows for since-deleted members/events still render
	membersByID := make(map[string]memberModel.MemberModel)
	{
		var members []memberModel.MemberModel
		if err := ctrl.DB.Unscoped().Where("member_church_id = ?", churchID).Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load members")
		}
		for _, mbr := range members {
			membersByID[mbr.MemberID.String()] = mbr
		}
	}
	eventNames := make(map[string]string)
	{
		var events []eventModel.EventModel
		if err := ctrl.DB.Unscoped().Where("event_church_id = ?", churchID).Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load events")
		}
		for _, ev := range events {
			eventNames[ev.EventID.String()] = ev.EventName
		}
	}

	return sendCSV(c, "attendance.csv", func(w *csv.Writer) error {
		if err := w.Write([]string{"ID", "Date", "Check-In Time", "Method", "Person Type", "Name", "Gender", "Age Group", "Event"}); err != nil {
			return err
		}
		for _, rec := range records {
			name, gender, ageGroup := "", "", ""
			kind := "member"
			if rec.AttendanceRecordIsGuest {
				kind = "visitor"
				name = strOrEmpty(rec.AttendanceRecordVisitorName)
				gender = strOrEmpty(rec.AttendanceRecordVisitorGender)
				ageGroup = strOrEmpty(rec.AttendanceRecordVisitorAgeGroup)
			} else if rec.AttendanceRecordMemberID != nil {
				if mbr, ok := membersByID[rec.AttendanceRecordMemberID.String()]; ok {
					name = mbr.FullName()
					gender = mbr.MemberGender
					ageGroup = mbr.MemberAgeGroup
				}
			}
			row := []string{
				rec.AttendanceRecordID.String(),
				rec.AttendanceRecordAttendanceDate.Format("2006-01-02"),
				rec.AttendanceRecordCheckInTime.Format("15:04:05"),
				rec.AttendanceRecordCheckInMethod,
				kind,
				name,
				gender,
				ageGroup,
				eventNames[rec.AttendanceRecordEventID.String()],
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

/* ===================== MONTHLY REPORT ===================== */
// GET /api/export/monthly-report?year=&month=
func (ctrl *ExportController) ExportMonthlyReport(c *fiber.Ctx) error {
	churchID, err := helper.GetChurchIDFromToken(c)
	if err != nil {
		return err
	}

	now := time.Now()
	year := c.QueryInt("year", now.Year())
	monthNum := c.QueryInt("month", int(now.Month()))
	if monthNum < 1 || monthNum > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
	}

	rows, err := ctrl.reports.GetMonthlyBreakdown(ctrl.DB, churchID, year, time.Month(monthNum))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build monthly report")
	}

	filename := fmt.Sprintf("attendance-%d-%02d.csv", year, monthNum)
	return sendCSV(c, filename, func(w *csv.Writer) error {
		if err := w.Write([]string{"Date", "Total", "Male", "Female", "Child", "Adolescent", "Adult", "Guests"}); err != nil {
			return err
		}
		for _, row := range rows {
			rec := []string{
				row.Date,
				strconv.Itoa(row.Stats.Total),
				strconv.Itoa(row.Stats.Male),
				strconv.Itoa(row.Stats.Female),
				strconv.Itoa(row.Stats.Child),
				strconv.Itoa(row.Stats.Adolescent),
				strconv.Itoa(row.Stats.Adult),
				strconv.Itoa(row.Stats.Guests),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
