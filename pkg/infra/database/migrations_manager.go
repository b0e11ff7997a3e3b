package database

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var (
	migrationsRegistry = make(map[string]Migration)
	migrationsOrder    = make([]string, 0)
)

func RegisterMigration(m Migration) {
	if _, exists := migrationsRegistry[m.ID]; exists {
		panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
	}
	migrationsRegistry[m.ID] = m
	migrationsOrder = append(migrationsOrder, m.ID)
}

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

func (m *MigrationsManager) appliedMigrations() (map[string]struct{}, error) {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS public.schema_migrations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	if err := m.db.Exec(createTableSQL).Error; err != nil {
		return nil, err
	}

	type row struct{ ID string }
	var rows []row
	if err := m.db.Raw("SELECT id FROM public.schema_migrations").Scan(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		applied[r.ID] = struct{}{}
	}
	return applied, nil
}

func (m *MigrationsManager) ApplyPending() error {
	applied, err := m.appliedMigrations()
	if err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	sort.Strings(migrationsOrder)

	for _, id := range migrationsOrder {
		if _, ok := applied[id]; ok {
			continue
		}
		mig := migrationsRegistry[id]
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", id)
		}
		if err := mig.Up(m.db); err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
		if err := m.db.Exec(
			"INSERT INTO public.schema_migrations (id, name, applied_at) VALUES (?, ?, ?)",
			mig.ID, mig.Name, time.Now(),
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", mig.ID, err)
		}
	}
	return nil
}
