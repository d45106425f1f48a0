package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Schema drift report usage:

Lists database columns that no model field maps to. Handy after hand-edited
migrations on the hosted database.

1. Set the environment variable: SCHEMA_REPORT=true
2. Run the application: go run .

Example output:
=== SCHEMA DRIFT REPORT ===
--- Table: contact_submissions ---
Found 1 columns not accounted for in model:
  - legacy_phone

=== SUMMARY ===
Total unmapped columns across all tables: 1
*/

// AllModels lists every persisted model, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&ContactSubmission{},
	}
}

// Migrate creates or updates the tables for every persisted model.
func Migrate(db *gorm.DB) error {
	// Set up verbose logging for migration
	migrationLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 migrationLogger,
	})

	if err := migrateDB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SchemaDriftReport prints, per table, the database columns that are not
// mapped by the corresponding model. It returns the total count.
func SchemaDriftReport(db *gorm.DB) (int, error) {
	fmt.Println("=== SCHEMA DRIFT REPORT ===")

	total := 0
	for _, model := range AllModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return total, fmt.Errorf("parse model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		if !db.Migrator().HasTable(tableName) {
			fmt.Println("Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return total, fmt.Errorf("read columns for %s: %w", tableName, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		unmapped := findUnmappedColumns(dbColumns, stmt.Schema.DBNames)
		if len(unmapped) > 0 {
			fmt.Printf("Found %d columns not accounted for in model:\n", len(unmapped))
			for _, col := range unmapped {
				fmt.Printf("  - %s\n", col)
			}
			total += len(unmapped)
		} else {
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total unmapped columns across all tables: %d\n", total)
	return total, nil
}

// findUnmappedColumns returns the columns present in the database but absent from the model
func findUnmappedColumns(dbColumns, modelColumns []string) []string {
	modelColumnSet := make(map[string]bool, len(modelColumns))
	for _, col := range modelColumns {
		modelColumnSet[col] = true
	}

	var unmapped []string
	for _, col := range dbColumns {
		if !modelColumnSet[col] {
			unmapped = append(unmapped, col)
		}
	}
	sort.Strings(unmapped)
	return unmapped
}
