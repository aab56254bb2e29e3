package source

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonItem struct {
	Name string `json:"name"`
}

func TestCollectJSONArray(t *testing.T) {
	items, err := CollectJSONArray[jsonItem](context.Background(), strings.NewReader(`[{"name":"a"},{"name":"b"}]`))
	require.NoError(t, err)
	assert.Equal(t, []jsonItem{{"a"}, {"b"}}, items)
}

func TestCollectJSONArray_NotArray(t *testing.T) {
	_, err := CollectJSONArray[jsonItem](context.Background(), strings.NewReader(`{"name":"a"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected '['")
}

func TestCollectJSONArray_BadElement(t *testing.T) {
	items, err := CollectJSONArray[jsonItem](context.Background(), strings.NewReader(`[{"name":"a"},{"name":1}]`))
	require.Error(t, err)
	assert.Len(t, items, 1)
}

func TestCollectJSONArray_Empty(t *testing.T) {
	items, err := CollectJSONArray[jsonItem](context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}
