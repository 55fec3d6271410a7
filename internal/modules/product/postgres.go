package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id,name,model_number,description,category,size,cost_price,selling_price,
       stock_quantity,low_stock_threshold,image,created_at,updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, name, model_number, description, category, size,
		   cost_price, selling_price, stock_quantity, low_stock_threshold, image)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.Name, p.ModelNumber, p.Description, p.Category, p.Size,
		p.CostPrice, p.SellingPrice, p.StockQuantity, p.LowStockThreshold, p.Image)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*Product, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND category=$%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR model_number ILIKE $%d)", len(args), len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		where += fmt.Sprintf(" AND selling_price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		where += fmt.Sprintf(" AND selling_price <= $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + orderClause(filter.Sort)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// orderClause maps a client sort key onto a whitelisted ORDER BY. Anything
// outside the whitelist falls back to newest-first.
func orderClause(sort string) string {
	switch sort {
	case "name":
		return " ORDER BY name ASC"
	case "-name":
		return " ORDER BY name DESC"
	case "selling_price":
		return " ORDER BY selling_price ASC"
	case "-selling_price":
		return " ORDER BY selling_price DESC"
	case "stock_quantity":
		return " ORDER BY stock_quantity ASC"
	case "-stock_quantity":
		return " ORDER BY stock_quantity DESC"
	case "created_at":
		return " ORDER BY created_at ASC"
	default:
		return " ORDER BY created_at DESC"
	}
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, model_number=$2, description=$3, category=$4, size=$5,
		    cost_price=$6, selling_price=$7, low_stock_threshold=$8, updated_at=$9
		WHERE id=$10`,
		p.Name, p.ModelNumber, p.Description, p.Category, p.Size,
		p.CostPrice, p.SellingPrice, p.LowStockThreshold, time.Now(), p.ID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetForSale(ctx context.Context, id string) (*SaleInfo, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	info := &SaleInfo{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, selling_price, stock_quantity FROM products WHERE id=$1`, uid).
		Scan(&info.ID, &info.Name, &info.SellingPrice, &info.StockQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Reserve performs the check-and-decrement as one conditional update so two
// concurrent reservations cannot both pass a stale stock check.
func (r *postgresRepo) Reserve(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}
	var newStock int
	err = r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING stock_quantity`, uid, qty).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the product is gone or the floor check failed.
		if _, getErr := r.GetForSale(ctx, id); errors.Is(getErr, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientStock
	}
	return newStock, err
}

func (r *postgresRepo) Release(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}
	var newStock int
	err = r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock_quantity`, uid, qty).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return newStock, err
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}
	var newStock int
	err = r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING stock_quantity`, uid, delta).Scan(&newStock)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetForSale(ctx, id); errors.Is(getErr, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientStock
	}
	return newStock, err
}

func (r *postgresRepo) ListLowStock(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE stock_quantity <= low_stock_threshold ORDER BY stock_quantity ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) InventoryValue(ctx context.Context) (*InventoryValue, error) {
	v := &InventoryValue{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(stock_quantity), 0),
		       COALESCE(SUM(cost_price * stock_quantity), 0),
		       COALESCE(SUM(selling_price * stock_quantity), 0)
		FROM products`).
		Scan(&v.TotalProducts, &v.TotalItems, &v.TotalCostValue, &v.TotalSellingValue)
	return v, err
}

func (r *postgresRepo) SetImage(ctx context.Context, id string, image string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET image=$1, updated_at=now() WHERE id=$2`, image, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scan(row rowScanner) (*Product, error) {
	p := &Product{}
	var size sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.ModelNumber, &p.Description, &p.Category,
		&size, &p.CostPrice, &p.SellingPrice, &p.StockQuantity,
		&p.LowStockThreshold, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if size.Valid {
		p.Size = size.String
	}
	return p, nil
}
