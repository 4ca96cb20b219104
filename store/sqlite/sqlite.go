/*
Package sqlite provides a SQLite-backed implementation of the engine's
persistence interfaces.

PURPOSE:
  Implements engine.Inventory and engine.InvoiceStore over SQLite via sqlx.
  One terminal, one database file; the same SQL works on PostgreSQL with
  only dialect tweaks.

KEY TABLES:
  medicines:      Authoritative stock records (stock counted in tablets)
  invoices:       Finalized, immutable invoice headers
  invoice_items:  Line snapshots per invoice

STOCK DISCIPLINE:
  DecrementStock runs a single conditional UPDATE (stock = stock - ? WHERE
  stock >= ?) so the count is re-checked atomically at the database and can
  never go negative, even if two terminals raced past their in-memory
  reservations.

MONEY:
  All monetary values are stored as decimal strings, never floats.

WAL MODE:
  Opened with WAL and foreign keys on:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./pharmacy.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/medicart/pos-engine/engine"
)

// Store implements engine.Inventory and engine.InvoiceStore using SQLite.
type Store struct {
	db *sqlx.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS medicines (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL CHECK (stock >= 0),
		sale_unit TEXT NOT NULL,
		tablets_per_strip INTEGER NOT NULL DEFAULT 1,
		strip_price TEXT,
		allow_loose_sale INTEGER NOT NULL DEFAULT 0,
		loose_tablet_price TEXT,
		low_stock_threshold INTEGER NOT NULL DEFAULT 0
	);

	-- Finalized invoices are immutable: no UPDATE or DELETE ever runs
	-- against these two tables.
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		number INTEGER NOT NULL UNIQUE,
		subtotal TEXT NOT NULL,
		discount_percent TEXT NOT NULL,
		discount_amount TEXT NOT NULL,
		cgst_amount TEXT NOT NULL,
		sgst_amount TEXT NOT NULL,
		round_off TEXT NOT NULL,
		grand_total TEXT NOT NULL,
		issued_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoice_items (
		invoice_id TEXT NOT NULL REFERENCES invoices(id),
		line_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		medicine_id TEXT NOT NULL,
		medicine_name TEXT NOT NULL,
		sale_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		tablets INTEGER NOT NULL,
		label TEXT NOT NULL,
		total TEXT NOT NULL,
		PRIMARY KEY (invoice_id, line_id)
	);

	CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice
		ON invoice_items(invoice_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROW TYPES
// =============================================================================

type medicineRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Stock             int            `db:"stock"`
	SaleUnit          string         `db:"sale_unit"`
	TabletsPerStrip   int            `db:"tablets_per_strip"`
	StripPrice        sql.NullString `db:"strip_price"`
	AllowLooseSale    bool           `db:"allow_loose_sale"`
	LooseTabletPrice  sql.NullString `db:"loose_tablet_price"`
	LowStockThreshold int            `db:"low_stock_threshold"`
}

func (r medicineRow) record() engine.StockRecord {
	return engine.StockRecord{
		ID:                engine.MedicineID(r.ID),
		Name:              r.Name,
		Stock:             r.Stock,
		SaleUnit:          engine.SaleUnit(r.SaleUnit),
		TabletsPerStrip:   r.TabletsPerStrip,
		StripPrice:        nullPrice(r.StripPrice),
		AllowLooseSale:    r.AllowLooseSale,
		LooseTabletPrice:  nullPrice(r.LooseTabletPrice),
		LowStockThreshold: r.LowStockThreshold,
	}
}

type invoiceRow struct {
	ID              string `db:"id"`
	Number          int64  `db:"number"`
	Subtotal        string `db:"subtotal"`
	DiscountPercent string `db:"discount_percent"`
	DiscountAmount  string `db:"discount_amount"`
	CGSTAmount      string `db:"cgst_amount"`
	SGSTAmount      string `db:"sgst_amount"`
	RoundOff        string `db:"round_off"`
	GrandTotal      string `db:"grand_total"`
	IssuedAt        string `db:"issued_at"`
}

type invoiceItemRow struct {
	InvoiceID    string `db:"invoice_id"`
	LineID       string `db:"line_id"`
	Position     int    `db:"position"`
	MedicineID   string `db:"medicine_id"`
	MedicineName string `db:"medicine_name"`
	SaleType     string `db:"sale_type"`
	Quantity     int    `db:"quantity"`
	UnitPrice    string `db:"unit_price"`
	Tablets      int    `db:"tablets"`
	Label        string `db:"label"`
	Total        string `db:"total"`
}

func nullPrice(ns sql.NullString) decimal.NullDecimal {
	if !ns.Valid {
		return decimal.NullDecimal{}
	}
	return engine.Price(ns.String)
}

func priceNull(p decimal.NullDecimal) sql.NullString {
	if !p.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: p.Decimal.String(), Valid: true}
}

// =============================================================================
// INVENTORY
// =============================================================================

func (s *Store) Medicine(ctx context.Context, id engine.MedicineID) (engine.StockRecord, error) {
	var row medicineRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM medicines WHERE id = ?`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return engine.StockRecord{}, engine.ErrMedicineNotFound
	}
	if err != nil {
		return engine.StockRecord{}, err
	}
	return row.record(), nil
}

func (s *Store) Medicines(ctx context.Context) ([]engine.StockRecord, error) {
	var rows []medicineRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM medicines ORDER BY id`); err != nil {
		return nil, err
	}
	recs := make([]engine.StockRecord, len(rows))
	for i, row := range rows {
		recs[i] = row.record()
	}
	return recs, nil
}

func (s *Store) Put(ctx context.Context, rec engine.StockRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medicines
			(id, name, stock, sale_unit, tablets_per_strip, strip_price,
			 allow_loose_sale, loose_tablet_price, low_stock_threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			stock = excluded.stock,
			sale_unit = excluded.sale_unit,
			tablets_per_strip = excluded.tablets_per_strip,
			strip_price = excluded.strip_price,
			allow_loose_sale = excluded.allow_loose_sale,
			loose_tablet_price = excluded.loose_tablet_price,
			low_stock_threshold = excluded.low_stock_threshold`,
		string(rec.ID), rec.Name, rec.Stock, string(rec.SaleUnit), rec.TabletsPerStrip,
		priceNull(rec.StripPrice), rec.AllowLooseSale, priceNull(rec.LooseTabletPrice),
		rec.LowStockThreshold)
	return err
}

func (s *Store) AddStock(ctx context.Context, id engine.MedicineID, tablets int) error {
	if tablets < 1 {
		return engine.ErrInvalidQuantity
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET stock = stock + ? WHERE id = ?`, tablets, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrMedicineNotFound
	}
	return nil
}

// DecrementStock re-checks availability inside a conditional UPDATE; the
// count can never go negative.
func (s *Store) DecrementStock(ctx context.Context, id engine.MedicineID, tablets int) error {
	if tablets < 1 {
		return engine.ErrInvalidQuantity
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE medicines SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		tablets, string(id), tablets)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Distinguish "missing" from "short".
	rec, err := s.Medicine(ctx, id)
	if err != nil {
		return err
	}
	return &engine.InsufficientStockError{
		MedicineID: id,
		Requested:  tablets,
		Available:  rec.Stock,
	}
}

// =============================================================================
// INVOICE HISTORY
// =============================================================================

func (s *Store) SaveInvoice(ctx context.Context, inv engine.Invoice) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices
			(id, number, subtotal, discount_percent, discount_amount,
			 cgst_amount, sgst_amount, round_off, grand_total, issued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.Subtotal.String(), inv.DiscountPercent.String(),
		inv.DiscountAmount.String(), inv.CGSTAmount.String(), inv.SGSTAmount.String(),
		inv.RoundOff.String(), inv.GrandTotal.String(), inv.IssuedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	for i, line := range inv.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items
				(invoice_id, line_id, position, medicine_id, medicine_name,
				 sale_type, quantity, unit_price, tablets, label, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, string(line.LineID), i, string(line.MedicineID), line.MedicineName,
			string(line.SaleType), line.Quantity, line.UnitPrice.String(),
			line.Tablets, line.Label, line.Total.String())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) Invoices(ctx context.Context) ([]engine.Invoice, error) {
	var rows []invoiceRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM invoices ORDER BY number DESC`); err != nil {
		return nil, err
	}

	invoices := make([]engine.Invoice, len(rows))
	for i, row := range rows {
		inv, err := s.loadInvoice(ctx, row)
		if err != nil {
			return nil, err
		}
		invoices[i] = inv
	}
	return invoices, nil
}

func (s *Store) loadInvoice(ctx context.Context, row invoiceRow) (engine.Invoice, error) {
	var items []invoiceItemRow
	err := s.db.SelectContext(ctx, &items,
		`SELECT * FROM invoice_items WHERE invoice_id = ? ORDER BY position`, row.ID)
	if err != nil {
		return engine.Invoice{}, err
	}

	issuedAt, err := time.Parse(time.RFC3339, row.IssuedAt)
	if err != nil {
		return engine.Invoice{}, fmt.Errorf("invoice %s has malformed issued_at: %w", row.ID, err)
	}

	lines := make([]engine.InvoiceLine, len(items))
	for i, item := range items {
		lines[i] = engine.InvoiceLine{
			LineID:       engine.LineID(item.LineID),
			MedicineID:   engine.MedicineID(item.MedicineID),
			MedicineName: item.MedicineName,
			SaleType:     engine.SaleType(item.SaleType),
			Quantity:     item.Quantity,
			UnitPrice:    engine.MustParseDecimal(item.UnitPrice),
			Tablets:      item.Tablets,
			Label:        item.Label,
			Total:        engine.MustParseDecimal(item.Total),
		}
	}

	return engine.Invoice{
		ID:              row.ID,
		Number:          row.Number,
		Lines:           lines,
		Subtotal:        engine.MustParseDecimal(row.Subtotal),
		DiscountPercent: engine.MustParseDecimal(row.DiscountPercent),
		DiscountAmount:  engine.MustParseDecimal(row.DiscountAmount),
		CGSTAmount:      engine.MustParseDecimal(row.CGSTAmount),
		SGSTAmount:      engine.MustParseDecimal(row.SGSTAmount),
		RoundOff:        engine.MustParseDecimal(row.RoundOff),
		GrandTotal:      engine.MustParseDecimal(row.GrandTotal),
		IssuedAt:        issuedAt,
	}, nil
}

func (s *Store) LastInvoiceNumber(ctx context.Context) (int64, error) {
	var last int64
	err := s.db.GetContext(ctx, &last, `SELECT COALESCE(MAX(number), 0) FROM invoices`)
	return last, err
}
