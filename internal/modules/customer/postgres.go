package customer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const customerColumns = `id,name,age,gender,phone,email,address,doctor_reference,medical_history,created_at,updated_at`

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers
		  (id, name, age, gender, phone, email, address, doctor_reference, medical_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Name, c.Age, c.Gender, c.Phone, c.Email,
		marshalJSON(c.Address), marshalJSON(c.DoctorReference), c.MedicalHistory)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	c, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*Customer, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Gender != "" {
		args = append(args, filter.Gender)
		where += fmt.Sprintf(" AND gender=$%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY created_at DESC"
	if filter.Sort == "name" {
		order = " ORDER BY name ASC"
	}
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + customerColumns + ` FROM customers` + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	customers, err := r.query(ctx, query, args...)
	return customers, total, err
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name=$1, age=$2, gender=$3, phone=$4, email=$5,
		    address=$6, doctor_reference=$7, medical_history=$8, updated_at=$9
		WHERE id=$10`,
		c.Name, c.Age, c.Gender, c.Phone, c.Email,
		marshalJSON(c.Address), marshalJSON(c.DoctorReference), c.MedicalHistory,
		time.Now(), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Search(ctx context.Context, query string) ([]*Customer, error) {
	return r.query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1
		ORDER BY name ASC`, "%"+query+"%")
}

func (r *postgresRepo) ListSales(ctx context.Context, customerID string) ([]SaleSummary, error) {
	uid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_number, total, created_at
		FROM sales WHERE customer_id=$1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []SaleSummary
	for rows.Next() {
		var s SaleSummary
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.Total, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (r *postgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]*Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []*Customer
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scan(row rowScanner) (*Customer, error) {
	c := &Customer{}
	var email, medicalHistory sql.NullString
	var address, doctorRef []byte
	err := row.Scan(&c.ID, &c.Name, &c.Age, &c.Gender, &c.Phone, &email,
		&address, &doctorRef, &medicalHistory, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.MedicalHistory = medicalHistory.String
	if len(address) > 0 {
		c.Address = &Address{}
		if err := json.Unmarshal(address, c.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	if len(doctorRef) > 0 {
		c.DoctorReference = &DoctorReference{}
		if err := json.Unmarshal(doctorRef, c.DoctorReference); err != nil {
			return nil, fmt.Errorf("decode doctor_reference: %w", err)
		}
	}
	return c, nil
}

func marshalJSON(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case *Address:
		if t == nil {
			return nil
		}
	case *DoctorReference:
		if t == nil {
			return nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
