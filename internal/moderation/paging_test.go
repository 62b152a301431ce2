package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	p, err := PageRequest{}.Normalize(50, 200)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PageSize)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	p, err := PageRequest{Page: 3, PageSize: 25}.Normalize(50, 200)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.PageSize)
}

func TestNormalizeRejectsOutOfRange(t *testing.T) {
	_, err := PageRequest{Page: -1}.Normalize(50, 200)
	assert.True(t, IsValidation(err))

	_, err = PageRequest{PageSize: 201}.Normalize(50, 200)
	assert.True(t, IsValidation(err))

	_, err = PageRequest{PageSize: -5}.Normalize(50, 200)
	assert.True(t, IsValidation(err))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, PageSize: 10}.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 0, TotalPages(10, 0))
}
