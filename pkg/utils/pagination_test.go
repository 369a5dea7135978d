package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams_AppliesLimitPolicy(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		want        PaginationParams
	}{
		{"defaults", 0, 0, PaginationParams{Page: 1, Limit: DefaultPageLimit}},
		{"negative", -3, -1, PaginationParams{Page: 1, Limit: DefaultPageLimit}},
		{"within range", 4, 35, PaginationParams{Page: 4, Limit: 35}},
		{"at cap", 1, MaxPageLimit, PaginationParams{Page: 1, Limit: MaxPageLimit}},
		{"above cap", 2, MaxPageLimit + 1, PaginationParams{Page: 2, Limit: DefaultPageLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetPaginationParams(tc.page, tc.limit))
		})
	}
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, Limit: 25}.CalculateOffset())
	assert.Equal(t, 50, PaginationParams{Page: 3, Limit: 25}.CalculateOffset())
	assert.Equal(t, 0, PaginationParams{Page: 3}.CalculateOffset(), "unlimited listings never skip rows")
	assert.Equal(t, 0, PaginationParams{Limit: 25}.CalculateOffset())
}

func TestCalculateMeta(t *testing.T) {
	meta := CalculateMeta(101, 2, 25)
	assert.Equal(t, PaginationMeta{Page: 2, Limit: 25, TotalCount: 101, TotalPages: 5}, meta)

	assert.Equal(t, 0, CalculateMeta(0, 1, 25).TotalPages)
	assert.Equal(t, 1, CalculateMeta(25, 1, 25).TotalPages)

	unlimited := CalculateMeta(7, 3, 0)
	assert.Equal(t, PaginationMeta{Page: 1, Limit: 7, TotalCount: 7, TotalPages: 1}, unlimited)
}
