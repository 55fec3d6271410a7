package sale

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prosthetix/prosthetics-backend/internal/modules/customer"
)

// ErrNotFound is returned by reads when a sale id does not resolve.
var ErrNotFound = errors.New("sale not found")

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateSale inserts the sale and all its items inside a single transaction.
func (r *postgresRepo) CreateSale(ctx context.Context, s *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales
		  (id, invoice_number, customer_id, subtotal, tax_rate, tax_amount,
		   discount_rate, discount_amount, total, payment_method, payment_status,
		   notes, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		s.ID, s.InvoiceNumber, s.CustomerID, s.Subtotal, s.TaxRate, s.TaxAmount,
		s.DiscountRate, s.DiscountAmount, s.Total, s.PaymentMethod, s.PaymentStatus,
		s.Notes, s.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, item := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, quantity, price, total)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			s.ID, i, item.ProductID, item.Quantity, item.Price, item.Total)
		if err != nil {
			return fmt.Errorf("insert sale_item: %w", err)
		}
	}

	return tx.Commit()
}

const saleColumns = `s.id, s.invoice_number, s.customer_id, s.subtotal, s.tax_rate, s.tax_amount,
       s.discount_rate, s.discount_amount, s.total, s.payment_method, s.payment_status,
       s.notes, s.created_by, s.created_at,
       c.name, c.phone, c.email, c.address,
       COALESCE(u.name, '')`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	s, err := r.scanSale(r.db.QueryRowContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		LEFT JOIN users u ON u.id = s.created_by
		WHERE s.id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Items, err = r.listItems(ctx, s.ID)
	return s, err
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*Sale, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Customer != "" {
		args = append(args, filter.Customer)
		where += fmt.Sprintf(" AND s.customer_id=$%d", len(args))
	}
	if filter.PaymentMethod != "" {
		args = append(args, filter.PaymentMethod)
		where += fmt.Sprintf(" AND s.payment_method=$%d", len(args))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		where += fmt.Sprintf(" AND s.payment_status=$%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND s.created_at >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND s.created_at <= $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales s`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + saleColumns + `
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		LEFT JOIN users u ON u.id = s.created_by` + where +
		fmt.Sprintf(` ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []*Sale
	for rows.Next() {
		s, err := r.scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, s := range sales {
		if s.Items, err = r.listItems(ctx, s.ID); err != nil {
			return nil, 0, err
		}
	}
	return sales, total, nil
}

// NextInvoiceSeq allocates the next per-day sequence with a single upsert so
// the read-then-write race of a max()-scan never occurs. The first call of a
// day seeds the counter from any pre-existing invoice numbers with the same
// prefix, preserving monotonicity across the cutover.
func (r *postgresRepo) NextInvoiceSeq(ctx context.Context, day string) (int, error) {
	var seq int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO invoice_counters (day, last_seq)
		VALUES ($1, COALESCE((
			SELECT MAX(CAST(SUBSTRING(invoice_number FROM 9) AS INTEGER))
			FROM sales WHERE invoice_number LIKE $1 || '%'
		), 0) + 1)
		ON CONFLICT (day) DO UPDATE
		SET last_seq = invoice_counters.last_seq + 1
		RETURNING last_seq`, day).Scan(&seq)
	return seq, err
}

func (r *postgresRepo) Report(ctx context.Context, since, until time.Time) (*Report, error) {
	report := &Report{
		TopProducts:          []TopProduct{},
		SalesByPaymentMethod: []PaymentMethodTotal{},
		SalesByDay:           []DailyTotal{},
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(tax_amount), 0),
		       COALESCE(SUM(discount_amount), 0),
		       COALESCE(AVG(total), 0)
		FROM sales WHERE created_at BETWEEN $1 AND $2`, since, until).
		Scan(&report.Summary.TotalSales, &report.Summary.TotalRevenue,
			&report.Summary.TotalTax, &report.Summary.TotalDiscount,
			&report.Summary.AverageSaleValue)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.product_id, p.name, p.model_number,
		       SUM(i.quantity), SUM(i.total)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.created_at BETWEEN $1 AND $2
		GROUP BY i.product_id, p.name, p.model_number
		ORDER BY SUM(i.quantity) DESC
		LIMIT 5`, since, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.ModelNumber,
			&tp.TotalQuantity, &tp.TotalRevenue); err != nil {
			return nil, err
		}
		report.TopProducts = append(report.TopProducts, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	methodRows, err := r.db.QueryContext(ctx, `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales WHERE created_at BETWEEN $1 AND $2
		GROUP BY payment_method ORDER BY SUM(total) DESC`, since, until)
	if err != nil {
		return nil, err
	}
	defer methodRows.Close()
	for methodRows.Next() {
		var mt PaymentMethodTotal
		if err := methodRows.Scan(&mt.PaymentMethod, &mt.Count, &mt.Total); err != nil {
			return nil, err
		}
		report.SalesByPaymentMethod = append(report.SalesByPaymentMethod, mt)
	}
	if err := methodRows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := r.db.QueryContext(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD'), COUNT(*), COALESCE(SUM(total), 0)
		FROM sales WHERE created_at BETWEEN $1 AND $2
		GROUP BY 1 ORDER BY 1 ASC`, since, until)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var dt DailyTotal
		if err := dayRows.Scan(&dt.Day, &dt.Count, &dt.Total); err != nil {
			return nil, err
		}
		report.SalesByDay = append(report.SalesByDay, dt)
	}
	return report, dayRows.Err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanSale(row rowScanner) (*Sale, error) {
	s := &Sale{}
	info := &CustomerInfo{}
	var notes, email sql.NullString
	var address []byte
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.Subtotal, &s.TaxRate,
		&s.TaxAmount, &s.DiscountRate, &s.DiscountAmount, &s.Total,
		&s.PaymentMethod, &s.PaymentStatus, &notes, &s.CreatedBy, &s.CreatedAt,
		&info.Name, &info.Phone, &email, &address, &s.CreatedByName)
	if err != nil {
		return nil, err
	}
	s.Notes = notes.String
	info.ID = s.CustomerID
	info.Email = email.String
	info.Address = formatAddress(address)
	s.Customer = info
	return s, nil
}

func (r *postgresRepo) listItems(ctx context.Context, saleID uuid.UUID) ([]SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.product_id, i.quantity, i.price, i.total,
		       COALESCE(p.name, ''), COALESCE(p.model_number, '')
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.sale_id=$1 ORDER BY i.position ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleItem
	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price,
			&item.Total, &item.ProductName, &item.ModelNumber); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// formatAddress flattens the stored address document into the single display
// line invoices print.
func formatAddress(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var addr customer.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return ""
	}
	parts := []string{}
	for _, p := range []string{addr.Street, addr.City, addr.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, ", ")
	if addr.ZipCode != "" {
		if line != "" {
			line += " - "
		}
		line += addr.ZipCode
	}
	return line
}
