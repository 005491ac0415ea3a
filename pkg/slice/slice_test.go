// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/pkg/slice"
)

/*
TestMap verifies projection order and that nil input encodes as an empty list.
*/
func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, slice.Map([]int{1, 2, 3}, strconv.Itoa))

	empty := slice.Map[int, string](nil, strconv.Itoa)
	encoded, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(encoded))
}
