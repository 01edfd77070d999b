package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	followupModel "gerejaku_backend/internals/features/attendance/followup/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	helper "gerejaku_backend/internals/helpers"
)

// recordingSender captures outgoing follow-up mail for assertions.
type recordingSender struct {
	sent chan string
}

func (s recordingSender) SendFollowUp(ctx context.Context, to, subject, body string) error {
	s.sent <- to
	return nil
}

func newFollowUpTestApp(t *testing.T, churchID uuid.UUID, sender recordingSender) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.MemberModel{},
		&followupModel.FollowUpRecordModel{},
	))

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("church_admin_ids", []string{churchID.String()})
		return c.Next()
	})
	ctrl := NewFollowUpController(db, sender)
	app.Post("/api/follow-up/contact", ctrl.RecordContact)
	return app, db
}

func postContact(t *testing.T, app *fiber.App, payload fiber.Map) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	req := httptest.NewRequest(http.MethodPost, "/api/follow-up/contact", &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRecordContactSendsEmailThroughSender(t *testing.T) {
	churchID := uuid.New()
	sender := recordingSender{sent: make(chan string, 1)}
	app, db := newFollowUpTestApp(t, churchID, sender)

	email := "away@example.com"
	mbr := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "Esi",
		MemberSurname:         "Boateng",
		MemberGender:          memberModel.GenderFemale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberEmail:           &email,
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&mbr).Error)

	resp := postContact(t, app, fiber.Map{
		"member_id":      mbr.MemberID,
		"contact_method": "email",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case to := <-sender.sent:
		assert.Equal(t, email, to)
	case <-time.After(2 * time.Second):
		t.Fatal("no follow-up email was sent")
	}

	var rec followupModel.FollowUpRecordModel
	require.NoError(t, db.First(&rec, "follow_up_record_member_id = ?", mbr.MemberID).Error)
	require.NotNil(t, rec.FollowUpRecordContactMethod)
	assert.Equal(t, "email", *rec.FollowUpRecordContactMethod)
}

func TestRecordContactPhoneDoesNotEmail(t *testing.T) {
	churchID := uuid.New()
	sender := recordingSender{sent: make(chan string, 1)}
	app, db := newFollowUpTestApp(t, churchID, sender)

	email := "reachable@example.com"
	mbr := memberModel.MemberModel{
		MemberChurchID:        churchID,
		MemberFirstName:       "Kwesi",
		MemberSurname:         "Appiah",
		MemberGender:          memberModel.GenderMale,
		MemberAgeGroup:        memberModel.AgeGroupAdult,
		MemberEmail:           &email,
		MemberIsCurrentMember: true,
	}
	require.NoError(t, db.Create(&mbr).Error)

	resp := postContact(t, app, fiber.Map{
		"member_id":      mbr.MemberID,
		"contact_method": "phone",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case to := <-sender.sent:
		t.Fatalf("unexpected follow-up email to %s", to)
	case <-time.After(100 * time.Millisecond):
	}
}
