package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type StatsService struct{ db *gorm.DB }

func NewStatsService(db *gorm.DB) *StatsService { return &StatsService{db: db} }

type SourceStat struct {
	Source        string  `json:"source"`
	Count         int64   `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

type PortionStats struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	TotalScans   int64        `json:"total_scans"`
	BySource     []SourceStat `json:"by_source"`
	FallbackRate float64      `json:"fallback_rate"`
	Confirmed    int64        `json:"confirmed"`
}

// Summary aggregates how portions got resolved for a user over a window.
// The fallback rate is the operational health signal: rising means the
// richer strategies are failing to find usable input.
func (s *StatsService) Summary(ctx context.Context, userID uint, from, to time.Time) (*PortionStats, error) {
	out := &PortionStats{}
	out.Range.From = from.Format("2006-01-02")
	out.Range.To = to.Format("2006-01-02")

	base := s.db.WithContext(ctx).
		Table("scan_logs").
		Where("user_id = ? AND created_at >= ? AND created_at < ? AND deleted_at IS NULL", userID, from, to)

	if err := base.Session(&gorm.Session{}).Count(&out.TotalScans).Error; err != nil {
		return nil, err
	}

	if err := base.Session(&gorm.Session{}).
		Select("source, COUNT(*) AS count, AVG(confidence) AS avg_confidence").
		Group("source").
		Order("count DESC").
		Scan(&out.BySource).Error; err != nil {
		return nil, err
	}

	if err := base.Session(&gorm.Session{}).
		Where("confirmed_at IS NOT NULL").
		Count(&out.Confirmed).Error; err != nil {
		return nil, err
	}

	if out.TotalScans > 0 {
		for _, row := range out.BySource {
			if row.Source == SourceFallback {
				out.FallbackRate = float64(row.Count) / float64(out.TotalScans)
			}
		}
	}
	return out, nil
}
