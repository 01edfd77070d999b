package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "gerejaku_backend/internals/features/attendance/records/model"
	attendanceService "gerejaku_backend/internals/features/attendance/records/service"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	"gerejaku_backend/internals/features/reports/dto"
)

const dateLayout = "2006-01-02"

type ReportService struct{}

func NewReportService() *ReportService { return &ReportService{} }

// GetAttendanceStats scans one day's records, joining member
// demographics and falling back to the guest snapshot columns.
func (s *ReportService) GetAttendanceStats(tx *gorm.DB, churchID uuid.UUID, date time.Time) (*dto.AttendanceStats, error) {
	day := attendanceService.NormalizeDate(date)

	type bucket struct {
		Gender   string `gorm:"column:gender"`
		AgeGroup string `gorm:"column:age_group"`
		IsGuest  bool   `gorm:"column:is_guest"`
		Total    int    `gorm:"column:total"`
	}
	var buckets []bucket
	err := tx.Raw(`
		SELECT
			COALESCE(m.member_gender, a.attendance_record_visitor_gender, '') AS gender,
			COALESCE(m.member_age_group, a.attendance_record_visitor_age_group, '') AS age_group,
			a.attendance_record_is_guest AS is_guest,
			COUNT(*) AS total
		FROM attendance_records a
		LEFT JOIN members m ON m.member_id = a.attendance_record_member_id
		WHERE a.attendance_record_church_id = ? AND a.attendance_record_attendance_date = ?
		GROUP BY 1, 2, 3`, churchID, day).Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	stats := dto.AttendanceStats{Date: day.Format(dateLayout)}
	for _, b := range buckets {
		stats.Total += b.Total
		if b.IsGuest {
			stats.Guests += b.Total
		}
		switch b.Gender {
		case memberModel.GenderMale:
			stats.Male += b.Total
		case memberModel.GenderFemale:
			stats.Female += b.Total
		}
		switch b.AgeGroup {
		case memberModel.AgeGroupChild:
			stats.Child += b.Total
		case memberModel.AgeGroupAdolescent:
			stats.Adolescent += b.Total
		case memberModel.AgeGroupAdult:
			stats.Adult += b.Total
		}
	}
	return &stats, nil
}

// memberDatePair is the sparse projection the absence and matrix
// reports aggregate Go-side (portable across Postgres and the sqlite
// test harness).
type memberDatePair struct {
	MemberID    uuid.UUID `gorm:"column:attendance_record_member_id"`
	Date        time.Time `gorm:"column:attendance_record_attendance_date"`
	CheckInTime time.Time `gorm:"column:attendance_record_check_in_time"`
	Method      string    `gorm:"column:attendance_record_check_in_method"`
}

func (s *ReportService) memberPairs(tx *gorm.DB, churchID uuid.UUID, start, end *time.Time) ([]memberDatePair, error) {
	q := tx.Model(&attendanceModel.AttendanceRecordModel{}).
		Select("attendance_record_member_id", "attendance_record_attendance_date",
			"attendance_record_check_in_time", "attendance_record_check_in_method").
		Where("attendance_record_church_id = ? AND attendance_record_member_id IS NOT NULL", churchID)
	if start != nil {
		q = q.Where("attendance_record_attendance_date >= ?", attendanceService.NormalizeDate(*start))
	}
	if end != nil {
		q = q.Where("attendance_record_attendance_date <= ?", attendanceService.NormalizeDate(*end))
	}

	var pairs []memberDatePair
	err := q.Find(&pairs).Error
	return pairs, err
}

// GetMissedServicesReport flags members with no attendance at all or
// whose last attendance predates today − weeks*7 days.
func (s *ReportService) GetMissedServicesReport(tx *gorm.DB, churchID uuid.UUID, weeks int) ([]dto.MissedServicesRow, error) {
	if weeks < 1 {
		weeks = 1
	}
	today := attendanceService.NormalizeDate(time.Now())
	cutoff := today.AddDate(0, 0, -weeks*7)

	var members []memberModel.MemberModel
	if err := tx.
		Where("member_church_id = ? AND member_is_current_member = ?", churchID, true).
		Order("member_first_name ASC, member_surname ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	pairs, err := s.memberPairs(tx, churchID, nil, nil)
	if err != nil {
		return nil, err
	}
	lastSeen := make(map[uuid.UUID]time.Time, len(pairs))
	for _, p := range pairs {
		if cur, ok := lastSeen[p.MemberID]; !ok || p.Date.After(cur) {
			lastSeen[p.MemberID] = p.Date
		}
	}

	rows := make([]dto.MissedServicesRow, 0)
	for _, mbr := range members {
		last, attended := lastSeen[mbr.MemberID]
		if attended && !last.Before(cutoff) {
			continue
		}
		row := dto.MissedServicesRow{
			MemberID:    mbr.MemberID,
			MemberName:  mbr.FullName(),
			MemberPhone: mbr.MemberPhone,
		}
		if attended {
			l := last
			row.LastAttendance = &l
			row.WeeksMissed = int(today.Sub(last).Hours() / (24 * 7))
		} else {
			row.NeverAttended = true
			row.WeeksMissed = weeks
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetMatrixReport materializes member × distinct-attendance-date cells
// from the sparse record set: every member gets exactly one cell per
// distinct date in range, and total_present + total_absent equals the
// number of dates for every row.
func (s *ReportService) GetMatrixReport(tx *gorm.DB, churchID uuid.UUID, start, end time.Time) (*dto.MatrixReport, error) {
	startDay := attendanceService.NormalizeDate(start)
	endDay := attendanceService.NormalizeDate(end)

	var members []memberModel.MemberModel
	if err := tx.
		Where("member_church_id = ?", churchID).
		Order("member_first_name ASC, member_surname ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	pairs, err := s.memberPairs(tx, churchID, &startDay, &endDay)
	if err != nil {
		return nil, err
	}

	// sparse lookup (member, date) → {time, method} + distinct dates
	type cellData struct {
		checkInTime time.Time
		method      string
	}
	lookup := make(map[uuid.UUID]map[string]cellData)
	dateSet := make(map[string]struct{})
	for _, p := range pairs {
		key := p.Date.Format(dateLayout)
		dateSet[key] = struct{}{}
		if lookup[p.MemberID] == nil {
			lookup[p.MemberID] = make(map[string]cellData)
		}
		lookup[p.MemberID][key] = cellData{checkInTime: p.CheckInTime, method: p.Method}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	report := dto.MatrixReport{
		StartDate: startDay.Format(dateLayout),
		EndDate:   endDay.Format(dateLayout),
		Dates:     dates,
		Rows:      make([]dto.MatrixRow, 0, len(members)),
	}

	for _, mbr := range members {
		row := dto.MatrixRow{
			MemberID:   mbr.MemberID,
			MemberName: mbr.FullName(),
			Cells:      make([]dto.MatrixCell, 0, len(dates)),
		}
		for _, d := range dates {
			cell := dto.MatrixCell{Date: d}
			if data, ok := lookup[mbr.MemberID][d]; ok {
				cell.Present = true
				t := data.checkInTime.Format("15:04:05")
				m := data.method
				cell.CheckInTime = &t
				cell.Method = &m
				row.TotalPresent++
			} else {
				row.TotalAbsent++
			}
			row.Cells = append(row.Cells, cell)
		}
		if len(dates) > 0 {
			row.AttendancePercentage = float64(row.TotalPresent) / float64(len(dates)) * 100
		}
		report.Rows = append(report.Rows, row)
	}
	return &report, nil
}

// MonthlyBreakdownRow feeds the monthly CSV export: per-date totals for
// one calendar month.
type MonthlyBreakdownRow struct {
	Date  string
	Stats dto.AttendanceStats
}

func (s *ReportService) GetMonthlyBreakdown(tx *gorm.DB, churchID uuid.UUID, year int, month time.Month) ([]MonthlyBreakdownRow, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	type dateRow struct {
		Date time.Time `gorm:"column:attendance_record_attendance_date"`
	}
	var dateRows []dateRow
	if err := tx.Model(&attendanceModel.AttendanceRecordModel{}).
		Distinct("attendance_record_attendance_date").
		Where("attendance_record_church_id = ? AND attendance_record_attendance_date >= ? AND attendance_record_attendance_date < ?",
			churchID, first, next).
		Order("attendance_record_attendance_date ASC").
		Find(&dateRows).Error; err != nil {
		return nil, err
	}

	rows := make([]MonthlyBreakdownRow, 0, len(dateRows))
	for _, dr := range dateRows {
		stats, err := s.GetAttendanceStats(tx, churchID, dr.Date)
		if err != nil {
			return nil, err
		}
		rows = append(rows, MonthlyBreakdownRow{Date: dr.Date.Format(dateLayout), Stats: *stats})
	}
	return rows, nil
}
