package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// StorageConfig contains trip store configuration
type StorageConfig struct {
	Path string `yaml:"path" validate:"omitempty"`
}

// RoadContextConfig configures the posted-limit / school-zone lookup service
type RoadContextConfig struct {
	BaseURL          string  `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS        int     `yaml:"timeoutMS" validate:"gte=0"`
	RefreshSeconds   float64 `yaml:"refreshSeconds" validate:"gte=0"`
	RefreshDistanceM float64 `yaml:"refreshDistanceM" validate:"gte=0"`
}

// DirectionsConfig configures the routing service
type DirectionsConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// FusionConfig contains speed/heading fusion tunables
type FusionConfig struct {
	SpeedAlpha          float64 `yaml:"speedAlpha" validate:"gt=0,lte=1"`
	HeadingAlpha        float64 `yaml:"headingAlpha" validate:"gt=0,lte=1"`
	SnapDeltaKmh        float64 `yaml:"snapDeltaKmh" validate:"gte=0"`
	StationaryClampKmh  float64 `yaml:"stationaryClampKmh" validate:"gte=0"`
	AccuracyTrustM      float64 `yaml:"accuracyTrustM" validate:"gte=0"`
	AccuracyBlendM      float64 `yaml:"accuracyBlendM" validate:"gte=0"`
	DriftReportedMaxKmh float64 `yaml:"driftReportedMaxKmh" validate:"gte=0"`
	DriftGeometricKmh   float64 `yaml:"driftGeometricKmh" validate:"gte=0"`
	MinElapsedS         float64 `yaml:"minElapsedS" validate:"gte=0"`
	HeadingMinSpeedKmh  float64 `yaml:"headingMinSpeedKmh" validate:"gte=0"`
	MotionWindow        int     `yaml:"motionWindow" validate:"gt=0"`
}

// SpeedingConfig contains speeding-episode tunables
type SpeedingConfig struct {
	ToleranceKmh   float64 `yaml:"toleranceKmh" validate:"gte=0"`
	SustainS       float64 `yaml:"sustainS" validate:"gte=0"`
	RecurringS     float64 `yaml:"recurringS" validate:"gte=0"`
	ModerateOver   float64 `yaml:"moderateOver" validate:"gt=0"`
	SeriousOver    float64 `yaml:"seriousOver" validate:"gt=0"`
	CriticalOver   float64 `yaml:"criticalOver" validate:"gt=0"`
	MinorPoints    int     `yaml:"minorPoints" validate:"gt=0"`
	ModeratePoints int     `yaml:"moderatePoints" validate:"gt=0"`
	SeriousPoints  int     `yaml:"seriousPoints" validate:"gt=0"`
	CriticalPoints int     `yaml:"criticalPoints" validate:"gt=0"`
	// RecurringDivisor scales down repeat penalties within one episode.
	RecurringDivisor int     `yaml:"recurringDivisor" validate:"gt=0"`
	BonusPoints      int     `yaml:"bonusPoints" validate:"gte=0"`
	BonusIntervalS   float64 `yaml:"bonusIntervalS" validate:"gte=0"`
	BonusMinKmh      float64 `yaml:"bonusMinKmh" validate:"gte=0"`
}

// GForceConfig contains smoothed-acceleration event cutoffs in m/s^2
type GForceConfig struct {
	BrakingMS2      float64 `yaml:"brakingMS2" validate:"gt=0"`
	AccelerationMS2 float64 `yaml:"accelerationMS2" validate:"gt=0"`
	CorneringMS2    float64 `yaml:"corneringMS2" validate:"gt=0"`
	GapS            float64 `yaml:"gapS" validate:"gte=0"`
	BrakingPoints   int     `yaml:"brakingPoints" validate:"gt=0"`
	AccelPoints     int     `yaml:"accelPoints" validate:"gt=0"`
	CorneringPoints int     `yaml:"corneringPoints" validate:"gt=0"`
}

// DistractionConfig contains phone-distraction tunables
type DistractionConfig struct {
	DebounceS   float64 `yaml:"debounceS" validate:"gte=0"`
	MinSpeedKmh float64 `yaml:"minSpeedKmh" validate:"gte=0"`
}

// StopConfig contains the stopped/moving hysteresis thresholds
type StopConfig struct {
	EnterKmh      float64 `yaml:"enterKmh" validate:"gte=0"`
	EnterSustainS float64 `yaml:"enterSustainS" validate:"gte=0"`
	ExitKmh       float64 `yaml:"exitKmh" validate:"gte=0"`
}

// SchoolZoneConfig defines when school-zone enforcement is active.
// Bands are local-time "HH:MM" pairs applied on weekdays only.
type SchoolZoneConfig struct {
	CapKmh     float64     `yaml:"capKmh" validate:"gte=0"`
	Multiplier int         `yaml:"multiplier" validate:"gt=0"`
	Bands      [][2]string `yaml:"bands"`
}

// ViolationConfig groups all detector tunables
type ViolationConfig struct {
	Speeding    SpeedingConfig    `yaml:"speeding"`
	GForce      GForceConfig      `yaml:"gforce"`
	Distraction DistractionConfig `yaml:"distraction"`
	Stop        StopConfig        `yaml:"stop"`
	SchoolZone  SchoolZoneConfig  `yaml:"schoolZone"`
}

// RouteConfig contains route projection / guidance tunables
type RouteConfig struct {
	OffRouteDistanceM float64   `yaml:"offRouteDistanceM" validate:"gt=0"`
	OffRouteSustainS  float64   `yaml:"offRouteSustainS" validate:"gte=0"`
	LookBack          int       `yaml:"lookBack" validate:"gte=0"`
	LookAhead         int       `yaml:"lookAhead" validate:"gt=0"`
	GuidanceBandsM    []float64 `yaml:"guidanceBandsM"`
	ExecuteM          float64   `yaml:"executeM" validate:"gt=0"`
}

// TripConfig contains aggregator tunables
type TripConfig struct {
	AccuracyMaxM     float64 `yaml:"accuracyMaxM" validate:"gt=0"`
	MinPointSpeedKmh float64 `yaml:"minPointSpeedKmh" validate:"gte=0"`
	PointsPerTick    int     `yaml:"pointsPerTick" validate:"gte=0"`
	WalkMaxKmh       float64 `yaml:"walkMaxKmh" validate:"gt=0"`
	TrainMinKmh      float64 `yaml:"trainMinKmh" validate:"gt=0"`
	MinConfidence    float64 `yaml:"minConfidence" validate:"gte=0,lte=1"`
	MaxDistractions  int     `yaml:"maxDistractions" validate:"gt=0"`
	PathToleranceM   float64 `yaml:"pathToleranceM" validate:"gt=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server      ServerConfig      `yaml:"server" validate:"required"`
	Storage     StorageConfig     `yaml:"storage"`
	RoadContext RoadContextConfig `yaml:"roadContext"`
	Directions  DirectionsConfig  `yaml:"directions"`
	Fusion      FusionConfig      `yaml:"fusion"`
	Violation   ViolationConfig   `yaml:"violation"`
	Route       RouteConfig       `yaml:"route"`
	Trip        TripConfig        `yaml:"trip"`
}
