package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveFor(t *testing.T, query string) Paging {
	t.Helper()
	app := fiber.New()
	var got Paging
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolvePaging(c)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePagingDefaults(t *testing.T) {
	p := resolveFor(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestResolvePagingClampsAndOffsets(t *testing.T) {
	p := resolveFor(t, "page=3&per_page=10")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)

	p = resolveFor(t, "page=-2&per_page=9999")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)

	// limit is an accepted alias
	p = resolveFor(t, "limit=5")
	assert.Equal(t, 5, p.PerPage)
}

func TestBuildPagination(t *testing.T) {
	pg := BuildPagination(45, Paging{Page: 2, PerPage: 20})
	assert.Equal(t, int64(45), pg.Total)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	pg = BuildPagination(0, Paging{Page: 1, PerPage: 20})
	assert.Equal(t, 1, pg.TotalPages)
	assert.False(t, pg.HasNext)
	assert.False(t, pg.HasPrev)
}

func TestStringListRoundTrip(t *testing.T) {
	assert.Equal(t, []string{}, JSONToStrings(StringsToJSON(nil)))
	assert.Equal(t, []string{"Go", "SQL"}, JSONToStrings(StringsToJSON([]string{"Go", "SQL"})))
	assert.Equal(t, []string{"a", "b"}, ParseStringList(" a , b "))
	assert.Equal(t, []string{"a", "b"}, ParseStringList(`["a","b"]`))
}
