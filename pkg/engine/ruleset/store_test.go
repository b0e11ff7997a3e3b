package ruleset

import (
	"context"
	"errors"
	"testing"

	"github.com/flagwise/flagwise/pkg/domain/rule"
	"github.com/flagwise/flagwise/pkg/domain/rule/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStore_CurrentNeverNil(t *testing.T) {
	store := NewStore(logrus.New(), new(mocks.Repository))

	snap := store.Current()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Rules)
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	repo := new(mocks.Repository)
	repo.On("ListEnabled", mock.Anything).Return([]rule.DetectionRule{
		keywordRule("pii", 80, "ssn"),
	}, nil)

	store := NewStore(logrus.New(), repo)
	require.NoError(t, store.Reload(context.Background()))

	snap := store.Current()
	require.Len(t, snap.Rules, 1)
	assert.Equal(t, "pii", snap.Rules[0].Name)
	assert.Equal(t, uint64(1), snap.Version)
}

func TestStore_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	repo := new(mocks.Repository)
	repo.On("ListEnabled", mock.Anything).Return([]rule.DetectionRule{
		keywordRule("pii", 80, "ssn"),
	}, nil).Once()
	repo.On("ListEnabled", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	store := NewStore(logrus.New(), repo)
	require.NoError(t, store.Reload(context.Background()))
	before := store.Current()

	err := store.Reload(context.Background())
	assert.ErrorContains(t, err, "failed to list enabled rules")
	assert.Same(t, before, store.Current())
}
