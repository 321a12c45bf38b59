package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Videeksha22/event-ticket-booking-system/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Read migration files and execute them
	// This is a simplified version - you might want to use a proper migration tool
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			role VARCHAR(20) DEFAULT 'customer',
			telegram_id VARCHAR(100) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT DEFAULT '',
			venue VARCHAR(255) NOT NULL,
			date TIMESTAMP NOT NULL,
			total_seats INTEGER NOT NULL CHECK (total_seats > 0),
			available_seats INTEGER NOT NULL CHECK (available_seats >= 0 AND available_seats <= total_seats),
			ticket_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			status VARCHAR(20) DEFAULT 'upcoming',
			created_by INTEGER REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS tickets (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id),
			user_id INTEGER NOT NULL REFERENCES users(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			total_amount NUMERIC(10,2) NOT NULL,
			status VARCHAR(20) DEFAULT 'pending',
			booked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS ticket_details (
			id SERIAL PRIMARY KEY,
			ticket_id INTEGER NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
			seat_number VARCHAR(10) NOT NULL,
			attendee_name VARCHAR(255) NOT NULL DEFAULT 'Guest'
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			ticket_id INTEGER NOT NULL REFERENCES tickets(id),
			amount NUMERIC(10,2) NOT NULL,
			method VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL,
			transaction_id VARCHAR(20) UNIQUE NOT NULL,
			paid_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS ticket_types (
			id SERIAL PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id),
			type_name VARCHAR(100) NOT NULL,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL CHECK (quantity >= 0)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_event_id ON tickets(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_user_id ON tickets(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_event_status ON tickets(event_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_ticket_details_ticket_id ON ticket_details(ticket_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_ticket_id ON payments(ticket_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ticket_types_event_id ON ticket_types(event_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
