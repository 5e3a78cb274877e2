// Package store persists finalized trip records to SQLite. The store is
// append-only: a record is written exactly once, at trip stop, and never
// updated.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/trip"
)

// ErrNotFound is returned when a trip id does not exist.
var ErrNotFound = errors.New("store: trip not found")

const schema = `
CREATE TABLE IF NOT EXISTS trips (
	id TEXT PRIMARY KEY,
	start_time INTEGER NOT NULL,
	end_time INTEGER NOT NULL,
	distance_km REAL NOT NULL,
	duration_s INTEGER NOT NULL,
	points INTEGER NOT NULL,
	compliance_score INTEGER NOT NULL,
	start_name TEXT NOT NULL DEFAULT '',
	end_name TEXT NOT NULL DEFAULT '',
	validity TEXT NOT NULL,
	reward_eligible INTEGER NOT NULL,
	driver_confidence REAL NOT NULL,
	mode TEXT NOT NULL,
	avg_speed_kmh REAL NOT NULL,
	max_speed_kmh REAL NOT NULL,
	compressed_path TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trip_id TEXT NOT NULL REFERENCES trips(id),
	type TEXT NOT NULL,
	ts_ns INTEGER NOT NULL,
	points_delta INTEGER NOT NULL,
	severity TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	lat REAL,
	lng REAL,
	speed_kmh REAL,
	road_limit_kmh REAL
);

CREATE INDEX IF NOT EXISTS idx_trip_events_trip ON trip_events(trip_id);
`

// Store wraps the SQLite trip database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the trip database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveTrip writes one finalized record and its events in a transaction.
func (s *Store) SaveTrip(ctx context.Context, rec trip.Record) error {
	pathJSON, err := json.Marshal(rec.CompressedPath)
	if err != nil {
		return fmt.Errorf("encode path: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trips (
			id, start_time, end_time, distance_km, duration_s, points,
			compliance_score, start_name, end_name, validity, reward_eligible,
			driver_confidence, mode, avg_speed_kmh, max_speed_kmh, compressed_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartTime.UnixNano(), rec.EndTime.UnixNano(),
		rec.DistanceKm, rec.DurationS, rec.Points,
		rec.ComplianceScore, rec.StartName, rec.EndName, string(rec.Validity),
		boolToInt(rec.RewardEligible), rec.DriverConfidence, string(rec.Mode),
		rec.AvgSpeedKmh, rec.MaxSpeedKmh, string(pathJSON),
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}

	for _, ev := range rec.Events {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trip_events (
				trip_id, type, ts_ns, points_delta, severity, description,
				lat, lng, speed_kmh, road_limit_kmh
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, string(ev.Type), ev.Timestamp.UnixNano(), ev.PointsDelta,
			string(ev.Severity), ev.Description,
			ev.Lat, ev.Lng, ev.SpeedKmh, ev.RoadLimit,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetTrip loads one record with its events.
func (s *Store) GetTrip(ctx context.Context, id string) (trip.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, start_time, end_time, distance_km, duration_s, points,
			compliance_score, start_name, end_name, validity, reward_eligible,
			driver_confidence, mode, avg_speed_kmh, max_speed_kmh, compressed_path
		FROM trips WHERE id = ?`, id)

	rec, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip.Record{}, ErrNotFound
		}
		return trip.Record{}, fmt.Errorf("scan trip: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, ts_ns, points_delta, severity, description,
			lat, lng, speed_kmh, road_limit_kmh
		FROM trip_events WHERE trip_id = ? ORDER BY ts_ns`, id)
	if err != nil {
		return trip.Record{}, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev   trip.DrivingEvent
			typ  string
			sev  string
			tsNS int64
		)
		if err := rows.Scan(&typ, &tsNS, &ev.PointsDelta, &sev, &ev.Description,
			&ev.Lat, &ev.Lng, &ev.SpeedKmh, &ev.RoadLimit); err != nil {
			return trip.Record{}, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = trip.EventType(typ)
		ev.Severity = trip.Severity(sev)
		ev.Timestamp = time.Unix(0, tsNS)
		rec.Events = append(rec.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return trip.Record{}, fmt.Errorf("iterate events: %w", err)
	}
	return rec, nil
}

// ListTrips returns up to limit most recent records, newest first, without
// their event logs.
func (s *Store) ListTrips(ctx context.Context, limit int) ([]trip.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_time, end_time, distance_km, duration_s, points,
			compliance_score, start_name, end_name, validity, reward_eligible,
			driver_confidence, mode, avg_speed_kmh, max_speed_kmh, compressed_path
		FROM trips ORDER BY start_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var out []trip.Record
	for rows.Next() {
		rec, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (trip.Record, error) {
	var (
		rec            trip.Record
		startNS, endNS int64
		validity, mode string
		rewardEligible int
		pathJSON       string
	)
	err := row.Scan(&rec.ID, &startNS, &endNS, &rec.DistanceKm, &rec.DurationS,
		&rec.Points, &rec.ComplianceScore, &rec.StartName, &rec.EndName,
		&validity, &rewardEligible, &rec.DriverConfidence, &mode,
		&rec.AvgSpeedKmh, &rec.MaxSpeedKmh, &pathJSON)
	if err != nil {
		return trip.Record{}, err
	}
	rec.StartTime = time.Unix(0, startNS)
	rec.EndTime = time.Unix(0, endNS)
	rec.Validity = trip.Validity(validity)
	rec.Mode = trip.TransportMode(mode)
	rec.RewardEligible = rewardEligible != 0
	var path []geo.Point
	if err := json.Unmarshal([]byte(pathJSON), &path); err != nil {
		return trip.Record{}, fmt.Errorf("decode path: %w", err)
	}
	rec.CompressedPath = path
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
