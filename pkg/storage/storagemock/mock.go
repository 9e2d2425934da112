package storagemock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/voltrank/voltrank/pkg/storage"
	"github.com/voltrank/voltrank/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) UpsertPlan(ctx context.Context, plan types.RetailPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockDatabase) GetPlan(ctx context.Context, hash string) (types.RetailPlan, error) {
	args := m.Called(ctx, hash)
	if len(args) > 0 {
		return args.Get(0).(types.RetailPlan), args.Error(1)
	}
	return types.RetailPlan{}, nil
}

func (m *MockDatabase) GetPlans(ctx context.Context, state string, meterType types.MeterType) ([]types.RetailPlan, error) {
	args := m.Called(ctx, state, meterType)
	if len(args) > 0 {
		plans, _ := args.Get(0).([]types.RetailPlan)
		return plans, args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) GetLatestRefreshTime(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).(time.Time), args.Error(1)
	}
	return time.Time{}, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
