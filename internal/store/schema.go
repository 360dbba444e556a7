package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the same three columns: id, sequence and
// timestamp. The sequence comes from the shared counter so rows from
// different tables can be interleaved in one timeline.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

var (
	// VerdictEventsColumns holds the columns for the "verdict_events" table.
	VerdictEventsColumns = eventColumns(
		&schema.Column{Name: "assessment_id", Type: field.TypeString},
		&schema.Column{Name: "origin", Type: field.TypeString},
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "field", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "verdict", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "inputs", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "message", Type: field.TypeString, Size: 2147483647},
	)
	// VerdictEventsTable holds the schema information for the "verdict_events" table.
	VerdictEventsTable = &schema.Table{
		Name:       "verdict_events",
		Columns:    VerdictEventsColumns,
		PrimaryKey: []*schema.Column{VerdictEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "verdictevent_timestamp", Columns: []*schema.Column{VerdictEventsColumns[2]}},
			{Name: "verdictevent_kind", Columns: []*schema.Column{VerdictEventsColumns[5]}},
		},
	}

	// ChatEventsColumns holds the columns for the "chat_events" table.
	ChatEventsColumns = eventColumns(
		&schema.Column{Name: "turn_id", Type: field.TypeString},
		&schema.Column{Name: "origin", Type: field.TypeString},
		&schema.Column{Name: "user_text", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "reply", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "reply_source", Type: field.TypeString},
	)
	// ChatEventsTable holds the schema information for the "chat_events" table.
	ChatEventsTable = &schema.Table{
		Name:       "chat_events",
		Columns:    ChatEventsColumns,
		PrimaryKey: []*schema.Column{ChatEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "chatevent_timestamp", Columns: []*schema.Column{ChatEventsColumns[2]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LlmRequestEventsColumns[9]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		VerdictEventsTable,
		ChatEventsTable,
		LlmRequestEventsTable,
	}
)

// migrate creates or upgrades all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
