package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

type StatisticsService struct {
	db *gorm.DB
}

// NewStatisticsService creates a new instance of StatisticsService
func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{
		db: db,
	}
}

type PersonnelStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Blocked  int64 `json:"blocked"`
	Inactive int64 `json:"inactive"`
}

type CardStats struct {
	Total              int64 `json:"total"`
	Assigned           int64 `json:"assigned"`
	Available          int64 `json:"available"`
	Blocked            int64 `json:"blocked"`
	PendingProgramming int64 `json:"pending_programming"`
	PendingResponsiva  int64 `json:"pending_responsiva"`
}

type TicketTypeStats struct {
	Type    string `json:"type"`
	Pending int    `json:"pending"`
	Total   int    `json:"total"`
}

type TimeSeriesData struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// GetPersonnelStats counts personnel per stored status.
func (ss *StatisticsService) GetPersonnelStats() (*PersonnelStats, error) {
	var stats PersonnelStats

	if err := ss.db.Model(&models.Person{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	counts := map[models.PersonStatus]*int64{
		models.PersonStatusActive:   &stats.Active,
		models.PersonStatusBlocked:  &stats.Blocked,
		models.PersonStatusInactive: &stats.Inactive,
	}
	for status, dest := range counts {
		if err := ss.db.Model(&models.Person{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}

	return &stats, nil
}

// GetCardStats counts cards per lifecycle and sub-status.
func (ss *StatisticsService) GetCardStats() (*CardStats, error) {
	var stats CardStats

	if err := ss.db.Model(&models.Card{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := ss.db.Model(&models.Card{}).Where("person_id IS NOT NULL").Count(&stats.Assigned).Error; err != nil {
		return nil, err
	}
	if err := ss.db.Model(&models.Card{}).Where("status = ?", models.CardStatusAvailable).Count(&stats.Available).Error; err != nil {
		return nil, err
	}
	if err := ss.db.Model(&models.Card{}).Where("status = ?", models.CardStatusBlocked).Count(&stats.Blocked).Error; err != nil {
		return nil, err
	}
	if err := ss.db.Model(&models.Card{}).
		Where("person_id IS NOT NULL AND programming_status = ?", models.ProgrammingPending).
		Count(&stats.PendingProgramming).Error; err != nil {
		return nil, err
	}
	if err := ss.db.Model(&models.Card{}).
		Where("person_id IS NOT NULL AND responsiva_status = ?", models.ResponsivaUnsigned).
		Count(&stats.PendingResponsiva).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetTicketStats groups tickets by type with pending counts.
func (ss *StatisticsService) GetTicketStats() ([]TicketTypeStats, error) {
	var stats []TicketTypeStats

	if err := ss.db.Table("tickets").
		Select("tickets.type, "+
			"COUNT(CASE WHEN tickets.status = ? THEN 1 END) as pending, "+
			"COUNT(*) as total", models.TicketStatusPending).
		Group("tickets.type").
		Order("total DESC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// GetActivityTimeSeries buckets history entries over time for the dashboard
// activity chart.
func (ss *StatisticsService) GetActivityTimeSeries(interval string, start, end time.Time) ([]TimeSeriesData, error) {
	const timeFormat = "2006-01-02 15:04:05"

	var sqlFormat string
	switch interval {
	case "hour":
		sqlFormat = "%Y-%m-%d %H:00:00"
	case "month":
		sqlFormat = "%Y-%m-01 00:00:00"
	default: // day
		sqlFormat = "%Y-%m-%d 00:00:00"
	}

	query := ss.db.Table("history_logs").
		Select("strftime(?, history_logs.timestamp) as timestamp_str, COUNT(*) as count", sqlFormat).
		Where("history_logs.timestamp BETWEEN ? AND ?", start, end).
		Group("timestamp_str").
		Order("timestamp_str")

	type rawData struct {
		TimestampStr string `gorm:"column:timestamp_str"`
		Count        int    `gorm:"column:count"`
	}

	var rawResults []rawData
	if err := query.Scan(&rawResults).Error; err != nil {
		return nil, err
	}

	var data []TimeSeriesData
	for _, r := range rawResults {
		t, err := time.Parse(timeFormat, r.TimestampStr)
		if err != nil {
			continue
		}
		data = append(data, TimeSeriesData{Timestamp: t, Count: r.Count})
	}

	return data, nil
}

// GetMostActiveUsers lists the operators with the most audited actions.
func (ss *StatisticsService) GetMostActiveUsers(limit int, start, end time.Time) ([]struct {
	ProfileID    string `json:"profile_id"`
	FullName     string `json:"full_name"`
	TotalActions int    `json:"total_actions"`
}, error) {
	var results []struct {
		ProfileID    string `json:"profile_id"`
		FullName     string `json:"full_name"`
		TotalActions int    `json:"total_actions"`
	}

	if err := ss.db.Table("history_logs").
		Select("profiles.id as profile_id, "+
			"profiles.full_name as full_name, "+
			"COUNT(*) as total_actions").
		Joins("JOIN profiles ON history_logs.performed_by = profiles.id").
		Where("history_logs.timestamp BETWEEN ? AND ?", start, end).
		Group("profiles.id, profiles.full_name").
		Order("total_actions DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
