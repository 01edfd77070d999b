package database

import (
	"log"

	followupModel "gerejaku_backend/internals/features/attendance/followup/model"
	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	churchModel "gerejaku_backend/internals/features/churches/church/model"
	eventModel "gerejaku_backend/internals/features/events/event/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	authModel "gerejaku_backend/internals/features/users/auth/model"
	visitorModel "gerejaku_backend/internals/features/visitors/visitor/model"
)

// AutoMigrate keeps dev/staging schemas in sync. Production uses SQL
// migrations; guard with AUTO_MIGRATE=true.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&churchModel.ChurchModel{},
		&authModel.UserModel{},
		&authModel.TokenBlacklistModel{},
		&memberModel.MemberModel{},
		&visitorModel.VisitorModel{},
		&eventModel.EventModel{},
		&attendanceModel.AttendanceRecordModel{},
		&followupModel.FollowUpRecordModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ AutoMigrate done.")
}
