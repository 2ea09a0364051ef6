// Package gbdb persists computed grain-boundary energies in a local
// SQLite database, so energies from many dump files can be compared
// without re-reading them.
package gbdb

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gb_energy (
			file TEXT NOT NULL,
			natoms INTEGER NOT NULL,
			area DOUBLE NOT NULL,
			energy DOUBLE NOT NULL,
			created TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordEnergy appends one computed energy.
func (s *Store) RecordEnergy(file string, natoms int, area, energy float64) error {
	_, err := s.db.Exec(
		"INSERT INTO gb_energy (file, natoms, area, energy) VALUES (?, ?, ?, ?)",
		file, natoms, area, energy)
	if err != nil {
		return fmt.Errorf("record energy for %s: %w", file, err)
	}
	return nil
}

// EnergyRow is one stored result.
type EnergyRow struct {
	File    string
	NAtoms  int
	Area    float64
	Energy  float64
	Created time.Time
}

// Energies returns all stored results, oldest first.
func (s *Store) Energies() ([]EnergyRow, error) {
	rows, err := s.db.Query(
		"SELECT file, natoms, area, energy, created FROM gb_energy ORDER BY created, file")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EnergyRow
	for rows.Next() {
		var r EnergyRow
		if err := rows.Scan(&r.File, &r.NAtoms, &r.Area, &r.Energy, &r.Created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
