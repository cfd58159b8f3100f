package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/hms/internal/platform/db"
)

type billRepoPG struct {
	pool *pgxpool.Pool
}

func NewBillRepo(pool *pgxpool.Pool) BillRepository {
	return &billRepoPG{pool: pool}
}

const billCols = `id, patient_id, amount::float8, to_char(bill_date, 'YYYY-MM-DD'), status, created_at, updated_at`

var billFilters = map[string]db.Filter{
	ParamPatientID: {Kind: db.FilterEquals, Column: "patient_id"},
	ParamStatus:    {Kind: db.FilterEquals, Column: "status"},
	ParamDate:      {Kind: db.FilterDay, Column: "bill_date"},
}

func (r *billRepoPG) Create(ctx context.Context, b *Bill) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO bills (id, patient_id, amount, bill_date, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4::date,$5,$6,$7)`,
		b.ID, b.PatientID, b.Amount, b.Date, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *billRepoPG) GetByID(ctx context.Context, id string) (*Bill, error) {
	b, err := scanBill(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+billCols+` FROM bills WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBillNotFound
	}
	return b, err
}

func (r *billRepoPG) Update(ctx context.Context, b *Bill) error {
	b.UpdatedAt = time.Now().UTC()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE bills SET patient_id=$2, amount=$3, bill_date=$4::date, status=$5, updated_at=$6
		WHERE id = $1
		RETURNING created_at`,
		b.ID, b.PatientID, b.Amount, b.Date, b.Status, b.UpdatedAt,
	).Scan(&b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBillNotFound
	}
	return err
}

func (r *billRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (r *billRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	qb := db.NewSelectQuery("bills", billCols)
	qb.ApplyParams(params, billFilters)
	qb.OrderBy("bill_date DESC, id")

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

	var out []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *billRepoPG) Summary(ctx context.Context) (Summary, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*), COALESCE(SUM(amount), 0)::float8 FROM bills GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sum := newSummary()
	for rows.Next() {
		var status BillStatus
		var t StatusTotal
		if err := rows.Scan(&status, &t.Count, &t.Amount); err != nil {
			return nil, err
		}
		sum[status] = t
	}
	return sum, rows.Err()
}

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	if err := row.Scan(&b.ID, &b.PatientID, &b.Amount, &b.Date, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
