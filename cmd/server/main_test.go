package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	ctx := context.Background()

	t.Run("memory store", func(t *testing.T) {
		store, err := counter(ctx, "memory")
		if !assert.Nil(t, err) {
			return
		}

		count, err := store.Increment(ctx)
		assert.Nil(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects unknown stores", func(t *testing.T) {
		store, err := counter(ctx, "lvie")

		assert.Nil(t, store)
		assert.EqualError(t, err, `unknown visitor store "lvie", expected memory, local or live`)
	})
}
