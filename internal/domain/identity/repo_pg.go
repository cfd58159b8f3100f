package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/hms/internal/platform/db"
)

// -- Patient Repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, name, age, gender, contact, address, status, doctor_id, created_at, updated_at`

var patientFilters = map[string]db.Filter{
	ParamName:     {Kind: db.FilterContains, Column: "name"},
	ParamStatus:   {Kind: db.FilterEquals, Column: "status"},
	ParamDoctorID: {Kind: db.FilterEquals, Column: "doctor_id"},
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patients (id, name, age, gender, contact, address, status, doctor_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.Name, p.Age, p.Gender, p.Contact, p.Address, p.Status, nullable(p.DoctorID), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := scanPatient(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	return p, err
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	p.UpdatedAt = time.Now().UTC()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE patients SET name=$2, age=$3, gender=$4, contact=$5, address=$6, status=$7, doctor_id=$8, updated_at=$9
		WHERE id = $1
		RETURNING created_at`,
		p.ID, p.Name, p.Age, p.Gender, p.Contact, p.Address, p.Status, nullable(p.DoctorID), p.UpdatedAt,
	).Scan(&p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPatientNotFound
	}
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *patientRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	qb := db.NewSelectQuery("patients", patientCols)
	qb.ApplyParams(params, patientFilters)
	qb.OrderBy("created_at, id")

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

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *patientRepoPG) CountByStatus(ctx context.Context) (map[PatientStatus]int, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*) FROM patients GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[PatientStatus]int, len(PatientStatuses))
	for rows.Next() {
		var status PatientStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var doctorID *string
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Contact, &p.Address, &p.Status, &doctorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if doctorID != nil {
		p.DoctorID = *doctorID
	}
	return &p, nil
}

// -- Doctor Repository --

type doctorRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorRepo(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

const doctorCols = `id, name, department, qualification, experience, languages, email, status,
	availability, rating, created_at, updated_at`

var doctorFilters = map[string]db.Filter{
	ParamName:       {Kind: db.FilterContains, Column: "name"},
	ParamDepartment: {Kind: db.FilterEquals, Column: "department"},
	ParamStatus:     {Kind: db.FilterEquals, Column: "status"},
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctors (id, name, department, qualification, experience, languages, email, status,
			availability, rating, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		d.ID, d.Name, d.Department, d.Qualification, d.Experience, []string(d.Languages), d.Email, d.Status,
		[]string(d.Availability), d.Rating, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id string) (*Doctor, error) {
	d, err := scanDoctor(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	return d, err
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	d.UpdatedAt = time.Now().UTC()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE doctors SET name=$2, department=$3, qualification=$4, experience=$5, languages=$6,
			email=$7, status=$8, availability=$9, rating=$10, updated_at=$11
		WHERE id = $1
		RETURNING created_at`,
		d.ID, d.Name, d.Department, d.Qualification, d.Experience, []string(d.Languages),
		d.Email, d.Status, []string(d.Availability), d.Rating, d.UpdatedAt,
	).Scan(&d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDoctorNotFound
	}
	return err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *doctorRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	qb := db.NewSelectQuery("doctors", doctorCols)
	qb.ApplyParams(params, doctorFilters)
	qb.OrderBy("name, id")

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

	var doctors []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var languages, availability []string
	err := row.Scan(&d.ID, &d.Name, &d.Department, &d.Qualification, &d.Experience, &languages, &d.Email,
		&d.Status, &availability, &d.Rating, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Languages, d.Availability = languages, availability
	return &d, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
