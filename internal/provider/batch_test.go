package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStatus(t *testing.T) {
	var empty Batch[int]
	assert.Equal(t, StatusEmpty, empty.Status())
	assert.NoError(t, empty.Error())

	var partial Batch[int]
	partial.Add(1, 2)
	partial.Fail("row 3", errors.New("bad"))
	assert.Equal(t, StatusOK, partial.Status())
	assert.ErrorContains(t, partial.Error(), "row 3: bad")

	var allFailed Batch[int]
	allFailed.Fail("TOR", errors.New("timeout"))
	assert.Equal(t, StatusUnavailable, allFailed.Status())

	down := Unavailable[int](errors.New("connection refused"))
	assert.Equal(t, StatusUnavailable, down.Status())
	assert.Empty(t, down.Items)
	assert.Equal(t, "unavailable", down.Status().String())
}

func TestBatchMerge(t *testing.T) {
	var all Batch[string]

	var tor Batch[string]
	tor.Add("Matthews", "Marner")
	all.Merge("TOR", tor)

	all.Merge("BOS", Unavailable[string](errors.New("404")))

	var mtl Batch[string]
	mtl.Add("Suzuki")
	mtl.Fail("row 9", errors.New("missing name"))
	all.Merge("MTL", mtl)

	assert.Equal(t, []string{"Matthews", "Marner", "Suzuki"}, all.Items)
	require.Len(t, all.Failures, 2)
	assert.Equal(t, "row 9", all.Failures[0].Key)
	assert.Equal(t, "BOS", all.Failures[1].Key)
	assert.NoError(t, all.Err)
	assert.Equal(t, StatusOK, all.Status())
}

func TestMapKeepsFailures(t *testing.T) {
	var in Batch[int]
	in.Add(1, 2, 3)
	in.Fail("x", errors.New("boom"))

	out := Map(in, func(v int) string { return string(rune('a' + v - 1)) })
	assert.Equal(t, []string{"a", "b", "c"}, out.Items)
	assert.Len(t, out.Failures, 1)

	down := Map(Unavailable[int](errors.New("down")), func(v int) int { return v })
	assert.Equal(t, StatusUnavailable, down.Status())
	assert.Nil(t, down.Items)
}

func TestTypedErrors(t *testing.T) {
	cause := errors.New("strconv: bad")
	err := error(&RowParseError{Source: "moneypuck", Key: "row 4", Err: cause})

	var rowErr *RowParseError
	require.True(t, errors.As(err, &rowErr))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "moneypuck")

	unknown := error(&UnknownEntityError{Kind: "team", Key: "XYZ"})
	var unknownErr *UnknownEntityError
	require.True(t, errors.As(unknown, &unknownErr))
	assert.Equal(t, `unknown team "XYZ"`, unknown.Error())
}
