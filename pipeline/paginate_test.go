package pipeline_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []parsekit.Item {
	out := make([]parsekit.Item, n)
	for i := range out {
		out[i] = parsekit.Item{"n": i}
	}
	return out
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	t.Run("returned count and next offset for every offset and limit", func(t *testing.T) {
		t.Parallel()

		for total := 0; total <= 6; total++ {
			for offset := 0; offset <= total; offset++ {
				for limit := 1; limit <= 7; limit++ {
					name := fmt.Sprintf("total=%d offset=%d limit=%d", total, offset, limit)

					page, next := pipeline.Paginate(items(total), offset, limit)

					want := max(min(limit, total-offset), 0)
					require.Len(t, page, want, name)
					if want > 0 {
						assert.Equal(t, offset, page[0]["n"], name)
					}
					if offset+want < total {
						require.NotNil(t, next, name)
						assert.Equal(t, offset+want, *next, name)
					} else {
						assert.Nil(t, next, name)
					}
				}
			}
		}
	})

	t.Run("no limit returns everything without next offset", func(t *testing.T) {
		t.Parallel()

		page, next := pipeline.Paginate(items(5), 0, 0)

		assert.Len(t, page, 5)
		assert.Nil(t, next)
	})

	t.Run("offset without limit skips items", func(t *testing.T) {
		t.Parallel()

		page, next := pipeline.Paginate(items(5), 2, 0)

		require.Len(t, page, 3)
		assert.Equal(t, 2, page[0]["n"])
		assert.Nil(t, next)
	})

	t.Run("offset beyond the end yields an empty page", func(t *testing.T) {
		t.Parallel()

		page, next := pipeline.Paginate(items(3), 10, 5)

		assert.NotNil(t, page)
		assert.Empty(t, page)
		assert.Nil(t, next)
	})

	t.Run("nil items", func(t *testing.T) {
		t.Parallel()

		page, next := pipeline.Paginate(nil, 0, 10)

		assert.NotNil(t, page)
		assert.Empty(t, page)
		assert.Nil(t, next)
	})
}
