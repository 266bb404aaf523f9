package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Bootstrap schema, applied idempotently at startup. The partial unique
// index over live appointments is the invariant that makes a losing
// concurrent booking fail deterministically instead of double-booking.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS doctors (
		id          uuid PRIMARY KEY,
		full_name   text NOT NULL,
		specialty   text,
		approved    boolean NOT NULL DEFAULT false,
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id          uuid PRIMARY KEY,
		full_name   text NOT NULL,
		email       text,
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS doctor_work_days (
		doctor_id     uuid NOT NULL REFERENCES doctors (id) ON DELETE CASCADE,
		weekday       smallint NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		start_minutes smallint NOT NULL CHECK (start_minutes >= 0),
		end_minutes   smallint NOT NULL CHECK (end_minutes <= 1440 AND end_minutes > start_minutes),
		PRIMARY KEY (doctor_id, weekday)
	)`,
	`CREATE TABLE IF NOT EXISTS admin_settings (
		id                     smallint PRIMARY KEY CHECK (id = 1),
		slot_minutes           integer,
		min_advance_hours      integer,
		max_advance_days       integer,
		allow_same_day_booking boolean,
		auto_confirm           boolean,
		maintenance_mode       boolean
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id               uuid PRIMARY KEY,
		doctor_id        uuid NOT NULL REFERENCES doctors (id),
		patient_id       uuid NOT NULL REFERENCES patients (id),
		appointment_date date NOT NULL,
		appointment_time smallint NOT NULL CHECK (appointment_time BETWEEN 0 AND 1439),
		status           text NOT NULL CHECK (status IN ('SCHEDULED', 'CONFIRMED', 'COMPLETED', 'CANCELLED')),
		notes            text NOT NULL DEFAULT '',
		symptoms         text NOT NULL DEFAULT '',
		reminder_sent_at timestamptz,
		created_at       timestamptz NOT NULL DEFAULT now(),
		updated_at       timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_live_slot_key
		ON appointments (doctor_id, appointment_date, appointment_time)
		WHERE status <> 'CANCELLED'`,
	`CREATE INDEX IF NOT EXISTS appointments_patient_idx ON appointments (patient_id)`,
	`CREATE TABLE IF NOT EXISTS event_logs (
		id             bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		event_type     text NOT NULL,
		appointment_id uuid,
		payload        jsonb,
		created_at     timestamptz NOT NULL DEFAULT now()
	)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
