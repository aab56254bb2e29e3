// Package mocks provides test doubles for the llm generator.
package mocks

import (
	"context"

	llm "github.com/sells-group/deal-desk/internal/llm"
	mock "github.com/stretchr/testify/mock"
)

// MockGenerator is a mock type for the Generator interface.
type MockGenerator struct {
	mock.Mock
}

// GenerateJSON provides a mock function with given fields: ctx, req
func (_m *MockGenerator) GenerateJSON(ctx context.Context, req llm.Request) (map[string]any, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for GenerateJSON")
	}

	var r0 map[string]any
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, llm.Request) (map[string]any, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]any)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockGenerator creates a new instance of MockGenerator. It also registers
// a testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
