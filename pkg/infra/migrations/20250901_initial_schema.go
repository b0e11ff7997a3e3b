package migrations

import (
	"github.com/flagwise/flagwise/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250901_initial_schema",
		Name: "Create core tables: chatbots, detection_rules, conversations, alerts",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE EXTENSION IF NOT EXISTS pgcrypto;
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS chatbots (
					id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name                  TEXT NOT NULL,
					description           TEXT NOT NULL DEFAULT '',
					company_name          TEXT NOT NULL DEFAULT '',
					provider              TEXT NOT NULL,
					model                 TEXT NOT NULL,
					endpoint_url          TEXT NOT NULL DEFAULT '',
					api_key_hash          TEXT NOT NULL DEFAULT '',
					status                TEXT NOT NULL DEFAULT 'active',
					monitoring_enabled    BOOLEAN NOT NULL DEFAULT TRUE,
					risk_threshold        INTEGER NOT NULL DEFAULT 70 CHECK (risk_threshold BETWEEN 0 AND 100),
					alert_on_risk         BOOLEAN NOT NULL DEFAULT TRUE,
					total_conversations   BIGINT NOT NULL DEFAULT 0,
					flagged_conversations BIGINT NOT NULL DEFAULT 0,
					created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS detection_rules (
					id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name        TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					category    TEXT NOT NULL DEFAULT 'security',
					kind        TEXT NOT NULL,
					params      JSONB,
					weight      INTEGER NOT NULL DEFAULT 0 CHECK (weight BETWEEN 0 AND 100),
					severity    TEXT NOT NULL DEFAULT 'normal',
					enabled     BOOLEAN NOT NULL DEFAULT TRUE,
					created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS conversations (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					chatbot_id      UUID NOT NULL REFERENCES chatbots(id) ON DELETE CASCADE,
					conversation_id TEXT NOT NULL DEFAULT '',
					user_id         TEXT NOT NULL DEFAULT '',
					prompt          TEXT NOT NULL DEFAULT '',
					response        TEXT NOT NULL DEFAULT '',
					model           TEXT NOT NULL DEFAULT '',
					metadata        JSONB,
					risk_score      INTEGER NOT NULL DEFAULT 0 CHECK (risk_score BETWEEN 0 AND 100),
					is_flagged      BOOLEAN NOT NULL DEFAULT FALSE,
					flag_reason     TEXT,
					matched_rules   JSONB,
					timestamp       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_conversations_chatbot_id ON conversations (chatbot_id);
				CREATE INDEX IF NOT EXISTS idx_conversations_flagged ON conversations (is_flagged) WHERE is_flagged;
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS alerts (
					id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					chatbot_id      UUID NOT NULL REFERENCES chatbots(id) ON DELETE CASCADE,
					conversation_id UUID NOT NULL,
					score           INTEGER NOT NULL DEFAULT 0,
					severity        TEXT NOT NULL DEFAULT 'low',
					reason          TEXT NOT NULL DEFAULT '',
					status          TEXT NOT NULL DEFAULT 'new',
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_alerts_chatbot_id ON alerts (chatbot_id);
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`
				DROP TABLE IF EXISTS alerts;
				DROP TABLE IF EXISTS conversations;
				DROP TABLE IF EXISTS detection_rules;
				DROP TABLE IF EXISTS chatbots;
			`).Error
		},
	})
}
