// Command createtable creates the view_instances table used by the MySQL
// view store (VIEW_STORE=mysql).
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"crudapp.com/app/internal/storage"
)

const ddl = `
CREATE TABLE IF NOT EXISTS view_instances (
  id CHAR(36) NOT NULL,
  payload JSON NOT NULL,
  expires_at DATETIME(3) NOT NULL,
  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
  PRIMARY KEY (id),
  KEY ix_view_instances_expires_at (expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

func main() {
	_ = godotenv.Load()

	dsn := flag.String("dsn", os.Getenv("DB_DSN"), "MySQL DSN")
	drop := flag.Bool("drop", false, "Drop the table first")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DB_DSN environment variable or -dsn is required")
	}

	db, err := storage.OpenMySQL(*dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}
	defer sqlDB.Close()

	if *drop {
		if _, err := sqlDB.Exec("DROP TABLE IF EXISTS view_instances"); err != nil {
			log.Fatalf("Failed to drop table: %v", err)
		}
	}
	if _, err := sqlDB.Exec(ddl); err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	log.Println("view_instances is ready")
}
