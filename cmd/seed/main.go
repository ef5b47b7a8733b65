// cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not found in context")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the inventory database from CSV files",
		Commands: []*cli.Command{
			{
				Name:  "components",
				Usage: "Seed components (name,category,current_stock,min_stock,unit_cost,description)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the components CSV",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedComponents,
			},
			{
				Name:  "suppliers",
				Usage: "Seed suppliers (name,email,phone,address,rating)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the suppliers CSV",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedSuppliers,
			},
			{
				Name:  "offers",
				Usage: "Seed supplier offers (component_name,supplier_name,unit_price,lead_time_days,is_primary)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the offers CSV",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedOffers,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openCSV(path string) (*csv.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// skip header
	if _, err := r.Read(); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	return r, f.Close, nil
}

func seedComponents(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	r, closeFile, err := openCSV(c.String("file"))
	if err != nil {
		return err
	}
	defer closeFile()

	const query = `
		INSERT INTO components (id, name, category, current_stock, min_stock, unit_cost, description)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			category = EXCLUDED.category,
			current_stock = EXCLUDED.current_stock,
			min_stock = EXCLUDED.min_stock,
			unit_cost = EXCLUDED.unit_cost,
			description = EXCLUDED.description,
			updated_at = NOW()`

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 6 {
			return fmt.Errorf("expected 6 columns, got %d: %v", len(record), record)
		}

		currentStock, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("invalid current_stock %q: %w", record[2], err)
		}
		minStock, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return fmt.Errorf("invalid min_stock %q: %w", record[3], err)
		}
		unitCost, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil {
			return fmt.Errorf("invalid unit_cost %q: %w", record[4], err)
		}

		_, err = db.ExecContext(c.Context, query,
			strings.TrimSpace(record[0]),
			strings.TrimSpace(record[1]),
			currentStock,
			minStock,
			unitCost,
			strings.TrimSpace(record[5]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert component %q: %w", record[0], err)
		}
		count++
	}

	log.Printf("seeded %d component(s)", count)
	return nil
}

func seedSuppliers(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	r, closeFile, err := openCSV(c.String("file"))
	if err != nil {
		return err
	}
	defer closeFile()

	const query = `
		INSERT INTO suppliers (id, name, email, phone, address, rating)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			rating = EXCLUDED.rating`

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 5 {
			return fmt.Errorf("expected 5 columns, got %d: %v", len(record), record)
		}

		rating, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("invalid rating %q: %w", record[4], err)
		}
		if rating < 0 || rating > 4 {
			return fmt.Errorf("rating %d outside 0..4 for supplier %q", rating, record[0])
		}

		_, err = db.ExecContext(c.Context, query,
			strings.TrimSpace(record[0]),
			strings.TrimSpace(record[1]),
			strings.TrimSpace(record[2]),
			strings.TrimSpace(record[3]),
			rating,
		)
		if err != nil {
			return fmt.Errorf("failed to insert supplier %q: %w", record[0], err)
		}
		count++
	}

	log.Printf("seeded %d supplier(s)", count)
	return nil
}

func seedOffers(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	r, closeFile, err := openCSV(c.String("file"))
	if err != nil {
		return err
	}
	defer closeFile()

	const query = `
		INSERT INTO component_suppliers (id, component_id, supplier_id, unit_price, lead_time_days, is_primary)
		SELECT gen_random_uuid(), c.id, s.id, $3, $4, $5
		FROM components c, suppliers s
		WHERE c.name = $1 AND s.name = $2
		ON CONFLICT (component_id, supplier_id) DO UPDATE SET
			unit_price = EXCLUDED.unit_price,
			lead_time_days = EXCLUDED.lead_time_days,
			is_primary = EXCLUDED.is_primary`

	// clear the old primary first so rotated primaries in the CSV do not
	// trip the one-primary-per-component index
	const demote = `
		UPDATE component_suppliers cs
		SET is_primary = false
		FROM components c, suppliers s
		WHERE cs.component_id = c.id
		  AND cs.supplier_id = s.id
		  AND c.name = $1
		  AND s.name <> $2
		  AND cs.is_primary`

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 5 {
			return fmt.Errorf("expected 5 columns, got %d: %v", len(record), record)
		}

		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return fmt.Errorf("invalid unit_price %q: %w", record[2], err)
		}
		leadTime, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return fmt.Errorf("invalid lead_time_days %q: %w", record[3], err)
		}
		isPrimary, err := strconv.ParseBool(strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("invalid is_primary %q: %w", record[4], err)
		}

		if isPrimary {
			if _, err := db.ExecContext(c.Context, demote,
				strings.TrimSpace(record[0]),
				strings.TrimSpace(record[1]),
			); err != nil {
				return fmt.Errorf("failed to demote primary offers for %q: %w", record[0], err)
			}
		}

		result, err := db.ExecContext(c.Context, query,
			strings.TrimSpace(record[0]),
			strings.TrimSpace(record[1]),
			unitPrice,
			leadTime,
			isPrimary,
		)
		if err != nil {
			return fmt.Errorf("failed to insert offer %v: %w", record, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			log.Printf("warning: no match for component %q / supplier %q, offer skipped", record[0], record[1])
			continue
		}
		count++
	}

	log.Printf("seeded %d offer(s)", count)
	return nil
}
