package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"gerejaku_backend/internals/features/attendance/followup/service"
	churchModel "gerejaku_backend/internals/features/churches/church/model"
)

// StartAbsenceScanScheduler runs the consecutive-absence scan for every
// church. Interval is configurable via ABSENCE_SCAN_INTERVAL_HOURS
// (default 24); staff can also trigger the same scan on demand.
func StartAbsenceScanScheduler(db *gorm.DB) {
	go func() {
		intervalHours := 24
		if val := os.Getenv("ABSENCE_SCAN_INTERVAL_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		svc := service.NewFollowUpService()
		for {
			log.Println("[SCAN] Running absence scan for all churches...")

			var churches []churchModel.ChurchModel
			if err := db.Find(&churches).Error; err != nil {
				log.Printf("[SCAN ERROR] Failed to list churches: %v", err)
			} else {
				for _, church := range churches {
					flagged, err := svc.UpdateConsecutiveAbsences(db, church.ChurchID)
					if err != nil {
						log.Printf("[SCAN ERROR] %s: %v", church.ChurchName, err)
						continue
					}
					if flagged > 0 {
						log.Printf("[SCAN] %s: %d members flagged for follow-up", church.ChurchName, flagged)
					}
				}
			}

			time.Sleep(time.Duration(intervalHours) * time.Hour)
		}
	}()
}
