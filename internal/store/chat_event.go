package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendChat(ctx context.Context, data ChatEventData) error {
	err := r.insert(ctx, ChatEventsTable,
		[]string{"turn_id", "origin", "user_text", "reply", "reply_source"},
		[]any{data.TurnID, data.Origin, data.UserText, data.Reply, data.ReplySource},
	)
	if err != nil {
		return fmt.Errorf("save chat event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryChats(ctx context.Context, opts QueryOpts) ([]ChatEventRecord, error) {
	query, args := selectEvents(ChatEventsTable, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat events: %w", err)
	}
	defer rows.Close()

	var records []ChatEventRecord
	for rows.Next() {
		var rec ChatEventRecord
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp,
			&rec.TurnID, &rec.Origin, &rec.UserText, &rec.Reply, &rec.ReplySource,
		); err != nil {
			return nil, fmt.Errorf("scan chat event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query chat events: %w", err)
	}
	return records, nil
}
