package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	domainsettings "github.com/blindscommerce/backend/internal/domain/settings"
	"github.com/blindscommerce/backend/internal/domain/shared"
)

type mockSettingRepository struct {
	mock.Mock
}

func (m *mockSettingRepository) Find(ctx context.Context, category, key string) (*domainsettings.Setting, error) {
	args := m.Called(ctx, category, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsettings.Setting), args.Error(1)
}

func (m *mockSettingRepository) FindByCategory(ctx context.Context, category string) ([]*domainsettings.Setting, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainsettings.Setting), args.Error(1)
}

func (m *mockSettingRepository) Upsert(ctx context.Context, setting *domainsettings.Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func setting(category, key, value string) *domainsettings.Setting {
	return &domainsettings.Setting{Category: category, Key: key, Value: value}
}

func TestBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{" true ", true},
		{"false", false},
		{"0", false},
		{"yes", false},
		{"", false},
	}
	for _, tt := range tests {
		repo := new(mockSettingRepository)
		repo.On("Find", mock.Anything, "integrations", "use_taxjar_api").
			Return(setting("integrations", "use_taxjar_api", tt.value), nil)
		svc := NewService(repo, zap.NewNop(), time.Minute)

		got := svc.Bool(context.Background(), "integrations", "use_taxjar_api", true)
		assert.Equal(t, tt.want, got, "value %q", tt.value)
	}
}

func TestBoolFallbackWhenMissing(t *testing.T) {
	repo := new(mockSettingRepository)
	repo.On("Find", mock.Anything, "integrations", "use_taxjar_api").
		Return(nil, shared.ErrNotFound)
	svc := NewService(repo, zap.NewNop(), time.Minute)

	assert.False(t, svc.Bool(context.Background(), "integrations", "use_taxjar_api", false))
	assert.True(t, svc.Bool(context.Background(), "integrations", "use_taxjar_api", true))
	// Both reads served from the cached miss.
	repo.AssertNumberOfCalls(t, "Find", 1)
}

func TestStringCachesHits(t *testing.T) {
	repo := new(mockSettingRepository)
	repo.On("Find", mock.Anything, "integrations", "taxjar_api_key").
		Return(setting("integrations", "taxjar_api_key", "secret"), nil).Once()
	svc := NewService(repo, zap.NewNop(), time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, "secret", svc.String(context.Background(), "integrations", "taxjar_api_key", ""))
	}
	repo.AssertNumberOfCalls(t, "Find", 1)
}

func TestStringDoesNotCacheFailures(t *testing.T) {
	repo := new(mockSettingRepository)
	repo.On("Find", mock.Anything, "integrations", "taxjar_api_key").
		Return(nil, assert.AnError)
	svc := NewService(repo, zap.NewNop(), time.Minute)

	assert.Equal(t, "fallback", svc.String(context.Background(), "integrations", "taxjar_api_key", "fallback"))
	assert.Equal(t, "fallback", svc.String(context.Background(), "integrations", "taxjar_api_key", "fallback"))
	repo.AssertNumberOfCalls(t, "Find", 2)
}

func TestPutInvalidatesCache(t *testing.T) {
	repo := new(mockSettingRepository)
	repo.On("Find", mock.Anything, "integrations", "use_taxjar_api").
		Return(setting("integrations", "use_taxjar_api", "false"), nil).Once()
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	repo.On("Find", mock.Anything, "integrations", "use_taxjar_api").
		Return(setting("integrations", "use_taxjar_api", "true"), nil).Once()
	svc := NewService(repo, zap.NewNop(), time.Minute)

	assert.False(t, svc.Bool(context.Background(), "integrations", "use_taxjar_api", false))
	assert.NoError(t, svc.Put(context.Background(), setting("integrations", "use_taxjar_api", "true")))
	assert.True(t, svc.Bool(context.Background(), "integrations", "use_taxjar_api", false))
}

func TestPutRejectsInvalidSetting(t *testing.T) {
	repo := new(mockSettingRepository)
	svc := NewService(repo, zap.NewNop(), time.Minute)

	err := svc.Put(context.Background(), setting("", "use_taxjar_api", "true"))
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
