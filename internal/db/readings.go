package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNoDatabase = errors.New("database not available")

// MeterReading is one persisted extraction of a utility invoice.
type MeterReading struct {
	ID             uuid.UUID  `json:"id"`
	Address        string     `json:"address"`
	MeterPointID   string     `json:"meter_point_id"`
	ConsumptionKwh *float64   `json:"consumption_kwh"`
	Method         string     `json:"method"` // heuristic | llm
	Confidence     float64    `json:"confidence"`
	ImageURL       string     `json:"image_url"`
	RawText        string     `json:"raw_text,omitempty"`
	ExtractionJSON string     `json:"extraction_json,omitempty"`
	Status         string     `json:"status"` // pending | reviewed
	UserID         uuid.UUID  `json:"user_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// SaveReading inserts an extraction record into the tenant's schema.
func SaveReading(ctx context.Context, tenantAlias string, r *MeterReading) error {
	if Pool == nil {
		return ErrNoDatabase
	}
	schema := GetSchemaForTenant(tenantAlias)

	query := fmt.Sprintf(`
		INSERT INTO %s.meter_readings (
			address, meter_point_id, consumption_kwh, method, confidence,
			image_url, raw_text, extraction_json, status, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)
		RETURNING id, created_at
	`, schema)

	// Nullable JSONB
	var extractionJSON interface{}
	if r.ExtractionJSON != "" {
		extractionJSON = r.ExtractionJSON
	}

	err := Pool.QueryRow(ctx, query,
		r.Address, r.MeterPointID, r.ConsumptionKwh, r.Method, r.Confidence,
		r.ImageURL, r.RawText, extractionJSON, r.Status, r.UserID,
	).Scan(&r.ID, &r.CreatedAt)

	return err
}

// GetReadings returns the most recent extractions for a tenant.
func GetReadings(ctx context.Context, tenantAlias string, limit int) ([]MeterReading, error) {
	if Pool == nil {
		return nil, ErrNoDatabase
	}
	schema := GetSchemaForTenant(tenantAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(address, ''), COALESCE(meter_point_id, ''), consumption_kwh,
		       COALESCE(method, ''), COALESCE(confidence, 0), COALESCE(image_url, ''),
		       COALESCE(status, 'pending'), created_at
		FROM %s.meter_readings
		ORDER BY created_at DESC
		LIMIT $1
	`, schema)

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []MeterReading
	for rows.Next() {
		var r MeterReading
		err := rows.Scan(
			&r.ID, &r.Address, &r.MeterPointID, &r.ConsumptionKwh,
			&r.Method, &r.Confidence, &r.ImageURL,
			&r.Status, &r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}

	return readings, nil
}

// GetReadingByID retrieves a single extraction by ID.
func GetReadingByID(ctx context.Context, tenantAlias string, readingID string) (*MeterReading, error) {
	if Pool == nil {
		return nil, ErrNoDatabase
	}
	schema := GetSchemaForTenant(tenantAlias)

	query := fmt.Sprintf(`
		SELECT id, COALESCE(address, ''), COALESCE(meter_point_id, ''), consumption_kwh,
		       COALESCE(method, ''), COALESCE(confidence, 0), COALESCE(image_url, ''),
		       COALESCE(raw_text, ''), COALESCE(extraction_json::text, ''),
		       COALESCE(status, 'pending'),
		       COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid),
		       created_at, updated_at
		FROM %s.meter_readings
		WHERE id = $1
	`, schema)

	var r MeterReading
	err := Pool.QueryRow(ctx, query, readingID).Scan(
		&r.ID, &r.Address, &r.MeterPointID, &r.ConsumptionKwh,
		&r.Method, &r.Confidence, &r.ImageURL,
		&r.RawText, &r.ExtractionJSON,
		&r.Status, &r.UserID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateReading updates extraction fields from a whitelisted map.
func UpdateReading(ctx context.Context, tenantAlias string, readingID string, updates map[string]interface{}) error {
	if Pool == nil {
		return ErrNoDatabase
	}
	schema := GetSchemaForTenant(tenantAlias)

	// Build dynamic UPDATE query
	sets := []string{}
	args := []interface{}{}
	i := 1
	for key, value := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", key, i))
		args = append(args, value)
		i++
	}

	// Add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++

	// Add reading ID as last parameter
	args = append(args, readingID)

	query := fmt.Sprintf("UPDATE %s.meter_readings SET %s WHERE id = $%d",
		schema, strings.Join(sets, ", "), i)

	_, err := Pool.Exec(ctx, query, args...)
	return err
}

// DeleteReading removes an extraction record.
func DeleteReading(ctx context.Context, tenantAlias string, readingID string) error {
	if Pool == nil {
		return ErrNoDatabase
	}
	schema := GetSchemaForTenant(tenantAlias)
	query := fmt.Sprintf("DELETE FROM %s.meter_readings WHERE id = $1", schema)
	_, err := Pool.Exec(ctx, query, readingID)
	return err
}

// MonthlyStats represents monthly extraction statistics.
type MonthlyStats struct {
	Month             string  `json:"month"`
	TotalReadings     int     `json:"total_readings"`
	TotalKwh          float64 `json:"total_kwh"`
	WithMeterPoint    int     `json:"with_meter_point"`
	AvgConfidence     float64 `json:"avg_confidence"`
	HeuristicReadings int     `json:"heuristic_readings"`
}

// GetMonthlyStats returns statistics for the current month.
func GetMonthlyStats(ctx context.Context, tenantAlias string) (*MonthlyStats, error) {
	if Pool == nil {
		return nil, ErrNoDatabase
	}
	schema := GetSchemaForTenant(tenantAlias)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total_readings,
			COALESCE(SUM(consumption_kwh), 0) as total_kwh,
			COUNT(*) FILTER (WHERE meter_point_id <> '') as with_meter_point,
			COALESCE(AVG(confidence), 0) as avg_confidence,
			COUNT(*) FILTER (WHERE method = 'heuristic') as heuristic_readings
		FROM %s.meter_readings
		WHERE DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)
	`, schema)

	stats := &MonthlyStats{
		Month: time.Now().Format("2006-01"),
	}

	err := Pool.QueryRow(ctx, query).Scan(
		&stats.TotalReadings,
		&stats.TotalKwh,
		&stats.WithMeterPoint,
		&stats.AvgConfidence,
		&stats.HeuristicReadings,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
