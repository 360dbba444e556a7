package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendVerdict(ctx context.Context, data VerdictEventData) error {
	inputs, err := json.Marshal(data.Inputs)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}

	err = r.insert(ctx, VerdictEventsTable,
		[]string{"assessment_id", "origin", "kind", "field", "verdict", "inputs", "message"},
		[]any{data.AssessmentID, data.Origin, data.Kind, data.Field, data.Verdict, string(inputs), data.Message},
	)
	if err != nil {
		return fmt.Errorf("save verdict event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryVerdicts(ctx context.Context, opts QueryOpts) ([]VerdictEventRecord, error) {
	query, args := selectEvents(VerdictEventsTable, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query verdict events: %w", err)
	}
	defer rows.Close()

	var records []VerdictEventRecord
	for rows.Next() {
		var rec VerdictEventRecord
		var inputs string
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp,
			&rec.AssessmentID, &rec.Origin, &rec.Kind, &rec.Field, &rec.Verdict,
			&inputs, &rec.Message,
		); err != nil {
			return nil, fmt.Errorf("scan verdict event: %w", err)
		}
		if inputs != "" && inputs != "null" {
			if err := json.Unmarshal([]byte(inputs), &rec.Inputs); err != nil {
				return nil, fmt.Errorf("decode inputs of event %d: %w", rec.Sequence, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query verdict events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) VerdictCounts(ctx context.Context) (map[string]int, error) {
	query, args := builder().
		Select("kind", entsql.Count("*")).
		From(entsql.Table(VerdictEventsTable.Name)).
		GroupBy("kind").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query verdict counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan verdict count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
