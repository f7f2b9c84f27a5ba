package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/johnquangdev/caption-relay/internal/domain/entities"
)

type dispatchRunRepository struct {
	db *sql.DB
}

func (r *dispatchRunRepository) Create(ctx context.Context, run *entities.DispatchRun) error {
	request, err := json.Marshal(run.Request.Data())
	if err != nil {
		return fmt.Errorf("encode dispatch request: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO dispatch_runs (id, event_id, language_code, outcome, pending_count, inserted_count,
			request, model_output_raw, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID.String(), run.EventID.String(), run.LanguageCode, string(run.Outcome), run.PendingCount,
		run.InsertedCount, string(request), run.ModelOutputRaw, run.ErrorMessage, run.DurationMs,
		unixSeconds(run.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert dispatch run: %w", err)
	}
	return nil
}

func (r *dispatchRunRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]entities.DispatchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, language_code, outcome, pending_count, inserted_count, request,
			model_output_raw, error_message, duration_ms, created_at
		FROM dispatch_runs
		WHERE event_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, eventID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query dispatch runs: %w", err)
	}
	defer rows.Close()

	var runs []entities.DispatchRun
	for rows.Next() {
		run := entities.DispatchRun{EventID: eventID}
		var (
			id, outcome           string
			request, raw, errText sql.NullString
			createdAt             float64
		)
		if err := rows.Scan(&id, &run.LanguageCode, &outcome, &run.PendingCount, &run.InsertedCount,
			&request, &raw, &errText, &run.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan dispatch run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan dispatch run id: %w", err)
		}
		if request.Valid {
			var req entities.ProviderRequest
			if err := json.Unmarshal([]byte(request.String), &req); err == nil {
				run.Request = datatypes.NewJSONType(req)
			}
		}
		run.Outcome = entities.DispatchOutcome(outcome)
		run.ModelOutputRaw = raw.String
		run.ErrorMessage = errText.String
		run.CreatedAt = timeFromUnix(createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
