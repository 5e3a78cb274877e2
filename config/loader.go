package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads and validates configuration from the first path that exists.
// Defaults are applied before validation so a minimal file is enough.
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = []string{"config.yml", "./config/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	cfg.ApplyDefaults()
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is supplied.
func Default() AppConfig {
	var cfg AppConfig
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their built-in defaults.
func (cfg *AppConfig) ApplyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16181
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data/trips.db"
	}

	rc := &cfg.RoadContext
	if rc.TimeoutMS == 0 {
		rc.TimeoutMS = 3000
	}
	if rc.RefreshSeconds == 0 {
		rc.RefreshSeconds = 30
	}
	if rc.RefreshDistanceM == 0 {
		rc.RefreshDistanceM = 250
	}
	if cfg.Directions.TimeoutMS == 0 {
		cfg.Directions.TimeoutMS = 5000
	}

	f := &cfg.Fusion
	if f.SpeedAlpha == 0 {
		f.SpeedAlpha = 0.15
	}
	if f.HeadingAlpha == 0 {
		f.HeadingAlpha = 0.12
	}
	if f.SnapDeltaKmh == 0 {
		f.SnapDeltaKmh = 30
	}
	if f.StationaryClampKmh == 0 {
		f.StationaryClampKmh = 2.0
	}
	if f.AccuracyTrustM == 0 {
		f.AccuracyTrustM = 20
	}
	if f.AccuracyBlendM == 0 {
		f.AccuracyBlendM = 50
	}
	if f.DriftReportedMaxKmh == 0 {
		f.DriftReportedMaxKmh = 3
	}
	if f.DriftGeometricKmh == 0 {
		f.DriftGeometricKmh = 15
	}
	if f.MinElapsedS == 0 {
		f.MinElapsedS = 0.5
	}
	if f.HeadingMinSpeedKmh == 0 {
		f.HeadingMinSpeedKmh = 5
	}
	if f.MotionWindow == 0 {
		f.MotionWindow = 10
	}

	sp := &cfg.Violation.Speeding
	if sp.ToleranceKmh == 0 {
		sp.ToleranceKmh = 4
	}
	if sp.SustainS == 0 {
		sp.SustainS = 3
	}
	if sp.RecurringS == 0 {
		sp.RecurringS = 5
	}
	if sp.ModerateOver == 0 {
		sp.ModerateOver = 10
	}
	if sp.SeriousOver == 0 {
		sp.SeriousOver = 20
	}
	if sp.CriticalOver == 0 {
		sp.CriticalOver = 30
	}
	if sp.MinorPoints == 0 {
		sp.MinorPoints = 5
	}
	if sp.ModeratePoints == 0 {
		sp.ModeratePoints = 10
	}
	if sp.SeriousPoints == 0 {
		sp.SeriousPoints = 20
	}
	if sp.CriticalPoints == 0 {
		sp.CriticalPoints = 40
	}
	if sp.RecurringDivisor == 0 {
		sp.RecurringDivisor = 2
	}
	if sp.BonusPoints == 0 {
		sp.BonusPoints = 2
	}
	if sp.BonusIntervalS == 0 {
		sp.BonusIntervalS = 60
	}
	if sp.BonusMinKmh == 0 {
		sp.BonusMinKmh = 20
	}

	g := &cfg.Violation.GForce
	if g.BrakingMS2 == 0 {
		g.BrakingMS2 = 8.0
	}
	if g.AccelerationMS2 == 0 {
		g.AccelerationMS2 = 6.5
	}
	if g.CorneringMS2 == 0 {
		g.CorneringMS2 = 7.5
	}
	if g.GapS == 0 {
		g.GapS = 3
	}
	if g.BrakingPoints == 0 {
		g.BrakingPoints = 10
	}
	if g.AccelPoints == 0 {
		g.AccelPoints = 8
	}
	if g.CorneringPoints == 0 {
		g.CorneringPoints = 12
	}

	d := &cfg.Violation.Distraction
	if d.DebounceS == 0 {
		d.DebounceS = 2
	}
	if d.MinSpeedKmh == 0 {
		d.MinSpeedKmh = 5
	}

	st := &cfg.Violation.Stop
	if st.EnterKmh == 0 {
		st.EnterKmh = 1.5
	}
	if st.EnterSustainS == 0 {
		st.EnterSustainS = 4
	}
	if st.ExitKmh == 0 {
		st.ExitKmh = 5
	}

	sz := &cfg.Violation.SchoolZone
	if sz.CapKmh == 0 {
		sz.CapKmh = 40
	}
	if sz.Multiplier == 0 {
		sz.Multiplier = 2
	}
	if len(sz.Bands) == 0 {
		sz.Bands = [][2]string{{"07:00", "09:00"}, {"14:30", "16:30"}}
	}

	r := &cfg.Route
	if r.OffRouteDistanceM == 0 {
		r.OffRouteDistanceM = 25
	}
	if r.OffRouteSustainS == 0 {
		r.OffRouteSustainS = 3
	}
	if r.LookBack == 0 {
		r.LookBack = 2
	}
	if r.LookAhead == 0 {
		r.LookAhead = 12
	}
	if len(r.GuidanceBandsM) == 0 {
		r.GuidanceBandsM = []float64{2000, 1000, 500, 200}
	}
	if r.ExecuteM == 0 {
		r.ExecuteM = 30
	}

	tr := &cfg.Trip
	if tr.AccuracyMaxM == 0 {
		tr.AccuracyMaxM = 30
	}
	if tr.MinPointSpeedKmh == 0 {
		tr.MinPointSpeedKmh = 10
	}
	if tr.PointsPerTick == 0 {
		tr.PointsPerTick = 1
	}
	if tr.WalkMaxKmh == 0 {
		tr.WalkMaxKmh = 8
	}
	if tr.TrainMinKmh == 0 {
		tr.TrainMinKmh = 140
	}
	if tr.MinConfidence == 0 {
		tr.MinConfidence = 0.5
	}
	if tr.MaxDistractions == 0 {
		tr.MaxDistractions = 3
	}
	if tr.PathToleranceM == 0 {
		tr.PathToleranceM = 10
	}
}
