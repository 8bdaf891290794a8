// Package database wraps GORM with connection retry, pool settings,
// transactions and a zerolog-backed query logger.
//
// The sqlite driver is compiled in; Open selects it from Config.Driver.
// Schema management lives in the migration subpackage (versioned SQL via
// golang-migrate) or DB.AutoMigrate when Config.AutoMigrate is set.
//
//	db, err := database.Open(ctx, database.Config{DSN: "libros.db"}, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package database
