package violation

import (
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
)

// RoadContext is the last known posted-limit lookup result.
type RoadContext struct {
	MaxSpeedKmh  float64 // <= 0 when the service had no limit data
	IsSchoolZone bool
	FetchedAt    time.Time
	At           geo.Point
	Valid        bool
}

// NeedsRefresh reports whether a new road-context fetch is due: never
// fetched, stale, or the vehicle moved beyond the refresh distance.
func (rc RoadContext) NeedsRefresh(cfg config.RoadContextConfig, at time.Time, pos geo.Point) bool {
	if !rc.Valid {
		return true
	}
	if at.Sub(rc.FetchedAt).Seconds() > cfg.RefreshSeconds {
		return true
	}
	return geo.HaversineM(rc.At, pos) > cfg.RefreshDistanceM
}

// schoolHoursActive reports whether local time t falls inside one of the
// configured weekday bands.
func schoolHoursActive(cfg config.SchoolZoneConfig, t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	for _, band := range cfg.Bands {
		start, okS := parseHHMM(band[0])
		end, okE := parseHHMM(band[1])
		if okS && okE && minutes >= start && minutes < end {
			return true
		}
	}
	return false
}

func parseHHMM(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
