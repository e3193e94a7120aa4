// Package tests provides test-context utilities: a context carrying a
// unique test id and the test name, so tests can create uniquely-named
// resources and correlate log output with the test that produced it.
package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// contextKey is a private type for test metadata keys, avoiding
// collisions with other packages.
type contextKey string

const (
	testIdKey   contextKey = "testId"
	testNameKey contextKey = "testName"
	testTestKey contextKey = "testTest"
)

// TestInfo holds the metadata attached to a test context.
type TestInfo struct {
	Id   string
	Name string
	T    *testing.T
}

// GetUniqueContext derives a context from t.Context() carrying a
// unique test id (a UUID with a "test-" prefix), the test name and
// the testing.T itself.
func GetUniqueContext(t *testing.T) context.Context {
	t.Helper()

	ctx := t.Context()
	ctx = context.WithValue(ctx, testTestKey, t)
	ctx = context.WithValue(ctx, testIdKey, "test-"+uuid.New().String())
	ctx = context.WithValue(ctx, testNameKey, t.Name())

	return ctx
}

// GetTestInfo extracts the test metadata from a context built by
// GetUniqueContext. The second return is false when the context does
// not carry test metadata.
func GetTestInfo(ctx context.Context) (TestInfo, bool) {
	id, ok := ctx.Value(testIdKey).(string)
	if !ok {
		return TestInfo{}, false
	}

	name, _ := ctx.Value(testNameKey).(string)
	t, _ := ctx.Value(testTestKey).(*testing.T)

	return TestInfo{Id: id, Name: name, T: t}, true
}
