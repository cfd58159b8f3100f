package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/hms/internal/platform/db"
)

type labRepoPG struct {
	pool *pgxpool.Pool
}

func NewLabAppointmentRepo(pool *pgxpool.Pool) LabAppointmentRepository {
	return &labRepoPG{pool: pool}
}

const labCols = `id, patient_id, test_name, to_char(scheduled, 'YYYY-MM-DD'), status, report, created_at, updated_at`

var labFilters = map[string]db.Filter{
	ParamPatientID: {Kind: db.FilterEquals, Column: "patient_id"},
	ParamStatus:    {Kind: db.FilterEquals, Column: "status"},
}

func (r *labRepoPG) Create(ctx context.Context, l *LabAppointment) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	report, err := encodeReport(l)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO lab_appointments (id, patient_id, test_name, scheduled, status, report, created_at, updated_at)
		VALUES ($1,$2,$3,$4::date,$5,$6,$7,$8)`,
		l.ID, l.PatientID, l.TestName, l.Date, l.Status, report, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *labRepoPG) GetByID(ctx context.Context, id string) (*LabAppointment, error) {
	l, err := scanLab(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+labCols+` FROM lab_appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLabAppointmentNotFound
	}
	return l, err
}

func (r *labRepoPG) Update(ctx context.Context, l *LabAppointment) error {
	report, err := encodeReport(l)
	if err != nil {
		return err
	}
	l.UpdatedAt = time.Now().UTC()
	err = db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE lab_appointments SET patient_id=$2, test_name=$3, scheduled=$4::date, status=$5, report=$6, updated_at=$7
		WHERE id = $1
		RETURNING created_at`,
		l.ID, l.PatientID, l.TestName, l.Date, l.Status, report, l.UpdatedAt,
	).Scan(&l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLabAppointmentNotFound
	}
	return err
}

func (r *labRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM lab_appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLabAppointmentNotFound
	}
	return nil
}

func (r *labRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*LabAppointment, int, error) {
	qb := db.NewSelectQuery("lab_appointments", labCols)
	qb.ApplyParams(params, labFilters)
	qb.OrderBy("scheduled, id")

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn.Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*LabAppointment
	for rows.Next() {
		l, err := scanLab(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *labRepoPG) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*) FROM lab_appointments GROUP BY status`)
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var status LabStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		counts.add(status, n)
	}
	return counts, rows.Err()
}

func encodeReport(l *LabAppointment) ([]byte, error) {
	if l.Report == nil {
		return nil, nil
	}
	b, err := json.Marshal(l.Report)
	if err != nil {
		return nil, fmt.Errorf("encode lab report: %w", err)
	}
	return b, nil
}

func scanLab(row pgx.Row) (*LabAppointment, error) {
	var l LabAppointment
	var report []byte
	if err := row.Scan(&l.ID, &l.PatientID, &l.TestName, &l.Date, &l.Status, &report, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if len(report) > 0 {
		if err := json.Unmarshal(report, &l.Report); err != nil {
			return nil, fmt.Errorf("decode lab report %s: %w", l.ID, err)
		}
	}
	return &l, nil
}
