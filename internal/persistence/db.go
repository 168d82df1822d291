// Package persistence provides SQLite-based world state storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/statecraft/internal/coalition"
	"github.com/talgya/statecraft/internal/country"
	"github.com/talgya/statecraft/internal/diplomacy"
	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/strategy"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS countries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		gdp REAL NOT NULL,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		profile_json TEXT NOT NULL,
		resources_json TEXT NOT NULL,
		incidents_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relations (
		country_a TEXT NOT NULL,
		country_b TEXT NOT NULL,
		level REAL NOT NULL,
		PRIMARY KEY (country_a, country_b)
	);

	CREATE TABLE IF NOT EXISTS coalitions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		purpose TEXT NOT NULL,
		target_id TEXT,
		leader TEXT NOT NULL,
		cohesion REAL NOT NULL,
		formation_turn INTEGER NOT NULL,
		end_turn INTEGER,
		members_json TEXT NOT NULL,
		history_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		country TEXT NOT NULL,
		action TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		coalition_id TEXT,
		detail TEXT
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);
	CREATE INDEX IF NOT EXISTS idx_decisions_turn ON decisions(turn);
	CREATE INDEX IF NOT EXISTS idx_decisions_country ON decisions(country);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveCountries writes all countries to the database (full replace).
func (db *DB) SaveCountries(countries []*country.Country) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM countries"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO countries
		(id, name, gdp, lon, lat, profile_json, resources_json, incidents_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range countries {
		profileJSON, _ := json.Marshal(c.Profile)
		resourcesJSON, _ := json.Marshal(c.Resources)
		incidentsJSON, _ := json.Marshal(c.Incidents)

		if _, err := stmt.Exec(c.ID, c.Name, c.GDP, c.Lon, c.Lat,
			string(profileJSON), string(resourcesJSON), string(incidentsJSON)); err != nil {
			return fmt.Errorf("insert country %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// LoadCountries reads the full country roster back, sorted by id.
func (db *DB) LoadCountries() ([]*country.Country, error) {
	rows, err := db.conn.Queryx(
		"SELECT id, name, gdp, lon, lat, profile_json, resources_json, incidents_json FROM countries ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*country.Country
	for rows.Next() {
		var (
			c                                         country.Country
			profileJSON, resourcesJSON, incidentsJSON string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.GDP, &c.Lon, &c.Lat,
			&profileJSON, &resourcesJSON, &incidentsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(profileJSON), &c.Profile); err != nil {
			return nil, fmt.Errorf("country %s profile: %w", c.ID, err)
		}
		if resourcesJSON != "null" {
			if err := json.Unmarshal([]byte(resourcesJSON), &c.Resources); err != nil {
				return nil, fmt.Errorf("country %s resources: %w", c.ID, err)
			}
		}
		if incidentsJSON != "null" {
			if err := json.Unmarshal([]byte(incidentsJSON), &c.Incidents); err != nil {
				return nil, fmt.Errorf("country %s incidents: %w", c.ID, err)
			}
		}
		c.Profile.Normalize()
		out = append(out, &c)
	}
	return out, rows.Err()
}

// SaveCoalitions writes all coalitions, dissolved included (full replace).
func (db *DB) SaveCoalitions(reg *coalition.Registry) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM coalitions"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO coalitions
		(id, name, purpose, target_id, leader, cohesion, formation_turn, end_turn, members_json, history_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range reg.All() {
		membersJSON, _ := json.Marshal(c.Members)
		historyJSON, _ := json.Marshal(c.History)

		var endTurn any
		if c.EndTurn != nil {
			endTurn = *c.EndTurn
		}

		if _, err := stmt.Exec(c.ID, c.Name, c.Purpose.String(), c.TargetID,
			c.Leader, c.Cohesion, c.FormationTurn, endTurn,
			string(membersJSON), string(historyJSON)); err != nil {
			return fmt.Errorf("insert coalition %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// LoadCoalitions reconstructs the coalition registry.
func (db *DB) LoadCoalitions() (*coalition.Registry, error) {
	rows, err := db.conn.Queryx(
		"SELECT id, name, purpose, target_id, leader, cohesion, formation_turn, end_turn, members_json, history_json FROM coalitions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reg := coalition.NewRegistry()
	for rows.Next() {
		var (
			c                        coalition.Coalition
			purposeName              string
			targetID                 sql.NullString
			endTurn                  sql.NullInt64
			membersJSON, historyJSON string
		)
		if err := rows.Scan(&c.ID, &c.Name, &purposeName, &targetID, &c.Leader,
			&c.Cohesion, &c.FormationTurn, &endTurn, &membersJSON, &historyJSON); err != nil {
			return nil, err
		}
		p, ok := coalition.ParsePurpose(purposeName)
		if !ok {
			return nil, fmt.Errorf("coalition %s: unknown purpose %q", c.ID, purposeName)
		}
		c.Purpose = p
		c.TargetID = targetID.String
		if endTurn.Valid {
			t := int(endTurn.Int64)
			c.EndTurn = &t
		}
		if err := json.Unmarshal([]byte(membersJSON), &c.Members); err != nil {
			return nil, fmt.Errorf("coalition %s members: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(historyJSON), &c.History); err != nil {
			return nil, fmt.Errorf("coalition %s history: %w", c.ID, err)
		}
		reg.Add(&c)
	}
	return reg, rows.Err()
}

// SaveRelations writes the bilateral relation ledger (full replace).
// Scheduled decay state is not persisted; in-flight deltas taper away on
// resume as fresh drift.
func (db *DB) SaveRelations(ledger *diplomacy.Ledger) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM relations"); err != nil {
		return err
	}

	for _, pair := range ledger.Pairs() {
		if _, err := tx.Exec(
			"INSERT INTO relations (country_a, country_b, level) VALUES (?, ?, ?)",
			pair.A, pair.B, ledger.Relation(pair.A, pair.B)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadRelations reconstructs the relation ledger.
func (db *DB) LoadRelations() (*diplomacy.Ledger, error) {
	rows, err := db.conn.Queryx("SELECT country_a, country_b, level FROM relations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := diplomacy.NewLedger()
	for rows.Next() {
		var (
			a, b  string
			level float64
		)
		if err := rows.Scan(&a, &b, &level); err != nil {
			return nil, err
		}
		ledger.Set(a, b, level)
	}
	return ledger, rows.Err()
}

// RecordDecision appends a decision outcome to the decision history log.
func (db *DB) RecordDecision(o strategy.Outcome) error {
	succeeded := 0
	if o.Succeeded {
		succeeded = 1
	}
	_, err := db.conn.Exec(
		"INSERT INTO decisions (turn, country, action, succeeded, coalition_id, detail) VALUES (?, ?, ?, ?, ?, ?)",
		o.Turn, o.Country, o.Action.String(), succeeded, o.CoalitionID, o.Detail,
	)
	return err
}

// SaveEvents appends world events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (turn, description, category) VALUES (?, ?, ?)",
			e.Turn, e.Description, e.Category,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState reports whether a saved world exists.
func (db *DB) HasWorldState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM countries"); err != nil {
		return false
	}
	return count > 0
}

// SaveWorldState performs a full save of all world state.
func (db *DB) SaveWorldState(w *engine.World) error {
	slog.Info("saving world state",
		"countries", len(w.Countries),
		"coalitions", w.Coalitions.Len(),
		"turn", w.Turn,
	)

	if err := db.SaveCountries(w.Countries); err != nil {
		return fmt.Errorf("save countries: %w", err)
	}
	if err := db.SaveCoalitions(w.Coalitions); err != nil {
		return fmt.Errorf("save coalitions: %w", err)
	}
	if err := db.SaveRelations(w.Relations); err != nil {
		return fmt.Errorf("save relations: %w", err)
	}
	if err := db.SaveEvents(w.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_turn", fmt.Sprintf("%d", w.Turn)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("world state saved")
	return nil
}
