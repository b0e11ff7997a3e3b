package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flagwise/flagwise/pkg/domain"
	"github.com/flagwise/flagwise/pkg/domain/chatbot"
	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens gorm over a sqlmock connection and records every SQL
// statement the repository issues, so tests can assert on the generated
// UPDATE clauses.
func newMockDB(t *testing.T, captured *[]string) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	matcher := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		*captured = append(*captured, actualSQL)
		return nil
	})
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func capturedUpdate(t *testing.T, captured []string) string {
	t.Helper()
	for _, stmt := range captured {
		if strings.HasPrefix(stmt, "UPDATE") {
			return stmt
		}
	}
	t.Fatalf("no UPDATE statement captured, got %v", captured)
	return ""
}

func TestChatbotRepository_UpdatePersistsZeroValues(t *testing.T) {
	var captured []string
	db, mock := newMockDB(t, &captured)
	mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewChatbotRepository(db)
	bot := &chatbot.Chatbot{
		ID:                uuid.New(),
		Name:              "support-bot",
		Provider:          chatbot.ProviderOpenAI,
		Model:             "gpt-4",
		MonitoringEnabled: false,
		AlertOnRisk:       false,
		RiskThreshold:     0,
	}
	require.NoError(t, repo.Update(context.Background(), bot))

	stmt := capturedUpdate(t, captured)
	assert.Contains(t, stmt, `"monitoring_enabled"=`)
	assert.Contains(t, stmt, `"alert_on_risk"=`)
	assert.Contains(t, stmt, `"risk_threshold"=`)
	assert.NotContains(t, stmt, "total_conversations")
	assert.NotContains(t, stmt, "flagged_conversations")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatbotRepository_UpdateMissingRowIsNotFound(t *testing.T) {
	var captured []string
	db, mock := newMockDB(t, &captured)
	mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewChatbotRepository(db)
	bot := &chatbot.Chatbot{
		ID:       uuid.New(),
		Name:     "support-bot",
		Provider: chatbot.ProviderOpenAI,
		Model:    "gpt-4",
	}
	err := repo.Update(context.Background(), bot)
	assert.True(t, domain.IsNotFoundError(err))
}

func TestRuleRepository_UpdatePersistsZeroValues(t *testing.T) {
	var captured []string
	db, mock := newMockDB(t, &captured)
	mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRuleRepository(db)
	detectionRule := &rule.DetectionRule{
		ID:      uuid.New(),
		Name:    "ssn",
		Kind:    rule.KindRegex,
		Weight:  0,
		Enabled: false,
	}
	require.NoError(t, repo.Update(context.Background(), detectionRule))

	stmt := capturedUpdate(t, captured)
	assert.Contains(t, stmt, `"enabled"=`)
	assert.Contains(t, stmt, `"weight"=`)
	require.NoError(t, mock.ExpectationsWereMet())
}
