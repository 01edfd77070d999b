package controller

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	eventModel "gerejaku_backend/internals/features/events/event/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/visitors/visitor/model"
	helper "gerejaku_backend/internals/helpers"
)

func openExportTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&visitorModel.VisitorModel{},
		&eventModel.EventModel{},
		&attendanceModel.AttendanceRecordModel{},
	))
	return db
}

func newExportTestApp(t *testing.T, db *gorm.DB, churchID uuid.UUID) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("church_admin_ids", []string{churchID.String()})
		return c.Next()
	})
	ctrl := NewExportController(db)
	app.Get("/api/export/members", ctrl.ExportMembers)
	app.Get("/api/export/visitors", ctrl.ExportVisitors)
	app.Get("/api/export/attendance", ctrl.ExportAttendance)
	app.Get("/api/export/monthly-report", ctrl.ExportMonthlyReport)
	return app
}

func fetchCSV(t *testing.T, app *fiber.App, path string) [][]string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")

	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	return rows
}

func testStrPtr(s string) *string { return &s }

func TestExportMembersColumns(t *testing.T) {
	db := openExportTestDB(t)
	churchID := uuid.New()
	app := newExportTestApp(t, db, churchID)

	groupID := uuid.New()
	head := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "Ama",
		MemberSurname:         "Owusu",
		MemberGender:          memberModel.GenderFemale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberPhone:           testStrPtr("0200000001"),
		MemberEmail:           testStrPtr("ama@example.com"),
		MemberFamilyGroupID:   &groupID,
		MemberIsFamilyHead:    true,
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&head).Error)
	child := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "Kojo",
		MemberSurname:         "Owusu",
		MemberGender:          memberModel.GenderMale,
		MemberAgeGroup:        memberModel.AgeGroupChild,
		MemberParentID:        &head.MemberID,
		MemberFamilyGroupID:   &groupID,
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&child).Error)

	rows := fetchCSV(t, app, "/api/export/members")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"ID", "First Name", "Surname", "Gender", "Age Group", "Phone",
		"Email", "Address", "Parent ID", "Family Group", "Is Family Head",
		"Registered At",
	}, rows[0])

	// ordered by first name: Ama before Kojo
	headRow, childRow := rows[1], rows[2]
	assert.Equal(t, head.MemberID.String(), headRow[0])
	assert.Equal(t, "Ama", headRow[1])
	assert.Equal(t, "", headRow[8])
	assert.Equal(t, groupID.String(), headRow[9])
	assert.Equal(t, "true", headRow[10])

	assert.Equal(t, child.MemberID.String(), childRow[0])
	assert.Equal(t, head.MemberID.String(), childRow[8])
	assert.Equal(t, groupID.String(), childRow[9])
	assert.Equal(t, "false", childRow[10])
}

func TestExportVisitorsColumns(t *testing.T) {
	db := openExportTestDB(t)
	churchID := uuid.New()
	app := newExportTestApp(t, db, churchID)

	v := visitorModel.VisitorModel{
		VisitorChurchID:       churchID,
		VisitorName:           "Jane Doe",
		VisitorGender:         memberModel.GenderFemale,
		VisitorAgeGroup:       memberModel.AgeGroupAdult,
		VisitorPhone:          testStrPtr("0200000002"),
		VisitorPrayerPoints:   datatypes.JSON(`["healing","work"]`),
		VisitorFollowUpStatus: visitorModel.FollowUpStatusPending,
	}
	require.NoError(t, db.Create(&v).Error)

	rows := fetchCSV(t, app, "/api/export/visitors")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"ID", "Name", "Gender", "Age Group", "Phone", "Address",
		"Prayer Points", "Follow Up Status", "Created At",
	}, rows[0])

	row := rows[1]
	assert.Equal(t, v.VisitorID.String(), row[0])
	assert.Equal(t, "Jane Doe", row[1])
	assert.Equal(t, "healing; work", row[6])
	assert.Equal(t, visitorModel.FollowUpStatusPending, row[7])
}

func TestExportAttendanceColumns(t *testing.T) {
	db := openExportTestDB(t)
	churchID := uuid.New()
	app := newExportTestApp(t, db, churchID)
	svc := attendanceService.NewAttendanceService()

	ev := eventModel.EventModel{
		EventChurchID: churchID,
		EventName:     "Sunday Service",
		EventIsActive: true,
	}
	require.NoError(t, db.Create(&ev).Error)

	mbr := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "John",
		MemberSurname:         "Mensah",
		MemberGender:          memberModel.GenderMale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&mbr).Error)

	v := visitorModel.VisitorModel{
		VisitorChurchID:       churchID,
		VisitorName:           "Jane Doe",
		VisitorGender:         memberModel.GenderFemale,
		VisitorAgeGroup:       memberModel.AgeGroupAdolescent,
		VisitorFollowUpStatus: visitorModel.FollowUpStatusPending,
	}
	require.NoError(t, db.Create(&v).Error)

	day := time.Date(2026, 6, 7, 9, 30, 0, 0, time.UTC)
	memberRec, _, err := svc.CheckInMember(db, churchID, mbr.MemberID, ev.EventID, day, attendanceModel.CheckInMethodManual)
	require.NoError(t, err)
	_, _, err = svc.CheckInVisitor(db, churchID, &v, ev.EventID, day)
	require.NoError(t, err)

	// rows must keep the member's demographics after the member row is
	// soft-deleted
	require.NoError(t, db.Delete(&mbr).Error)

	rows := fetchCSV(t, app, "/api/export/attendance")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"ID", "Date", "Check-In Time", "Method", "Person Type", "Name",
		"Gender", "Age Group", "Event",
	}, rows[0])

	byID := make(map[string][]string, 2)
	for _, row := range rows[1:] {
		byID[row[0]] = row
	}

	memberRow := byID[memberRec.AttendanceRecordID.String()]
	require.NotNil(t, memberRow)
	assert.Equal(t, "2026-06-07", memberRow[1])
	assert.Equal(t, attendanceModel.CheckInMethodManual, memberRow[3])
	assert.Equal(t, "member", memberRow[4])
	assert.Equal(t, "John Mensah", memberRow[5])
	assert.Equal(t, memberModel.GenderMale, memberRow[6])
	assert.Equal(t, memberModel.AgeGroupAdult, memberRow[7])
	assert.Equal(t, "Sunday Service", memberRow[8])

	delete(byID, memberRec.AttendanceRecordID.String())
	require.Len(t, byID, 1)
	for _, guestRow := range byID {
		assert.Equal(t, "visitor", guestRow[4])
		assert.Equal(t, "Jane Doe", guestRow[5])
		assert.Equal(t, memberModel.GenderFemale, guestRow[6])
		assert.Equal(t, memberModel.AgeGroupAdolescent, guestRow[7])
		assert.Equal(t, "Sunday Service", guestRow[8])
	}
}

func TestExportMonthlyReportColumns(t *testing.T) {
	db := openExportTestDB(t)
	churchID := uuid.New()
	app := newExportTestApp(t, db, churchID)

	rows := fetchCSV(t, app, "/api/export/monthly-report?year=2026&month=6")
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{
		"Date", "Total", "Male", "Female", "Child", "Adolescent", "Adult", "Guests",
	}, rows[0])
}
