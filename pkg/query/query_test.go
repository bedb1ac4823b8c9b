// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"drama", "comedy"}, query.StringSlice(" drama, ,comedy ,"))
}

func TestInt(t *testing.T) {
	assert.Nil(t, query.Int(""))
	assert.Nil(t, query.Int("19x9"))
	if got := query.Int(" 1999 "); assert.NotNil(t, got) {
		assert.Equal(t, 1999, *got)
	}
}
