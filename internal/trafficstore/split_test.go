package trafficstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSingleObjectUnchanged(t *testing.T) {
	input := `{"count": 5, "uniques": 2, "views": []}`

	records, err := Split([]byte(input))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, input, records[0])
}

func TestSplitConcatenatedObjects(t *testing.T) {
	objects := []string{
		`{"count": 1, "views": [{"timestamp": "2024-01-01", "count": 1}]}`,
		`{"count": 2, "views": []}`,
		`{"count": 3, "views": [{"timestamp": "2024-01-03", "count": 3}]}`,
	}
	input := strings.Join(objects, "")

	records, err := Split([]byte(input))
	require.NoError(t, err)

	require.Len(t, records, len(objects))
	for i, want := range objects {
		assert.Equal(t, want, records[i])
	}

	// Concatenating the pieces reproduces the input byte for byte.
	assert.Equal(t, input, strings.Join(records, ""))
}

func TestSplitNestedBracesAreNotBoundaries(t *testing.T) {
	a := `{"count": 1, "meta": {"inner": {"deep": true}}, "views": []}`
	b := `{"count": 2, "views": []}`

	records, err := Split([]byte(a + b))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, a, records[0])
	assert.Equal(t, b, records[1])
}

func TestSplitBracesInsideStringsAreNotBoundaries(t *testing.T) {
	a := `{"note": "tricky }{ sequence", "views": []}`
	b := `{"note": "escaped \" quote }{ too", "views": []}`

	records, err := Split([]byte(a + b))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, a, records[0])
	assert.Equal(t, b, records[1])
}

func TestSplitToleratesWhitespaceBetweenObjects(t *testing.T) {
	records, err := Split([]byte("{\"a\": 1}\n{\"b\": 2}"))
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestSplitEmptyInput(t *testing.T) {
	_, err := Split([]byte(""))
	require.Error(t, err)

	var se *SplitError
	require.ErrorAs(t, err, &se)
}

func TestSplitUnterminatedRecord(t *testing.T) {
	_, err := Split([]byte(`{"count": 1, "views": [`))
	require.Error(t, err)

	var se *SplitError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Record)
}

func TestSplitGarbageBetweenObjects(t *testing.T) {
	_, err := Split([]byte(`{"a": 1}garbage{"b": 2}`))
	require.Error(t, err)

	var se *SplitError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Record, "error identifies the positional record")
	assert.Equal(t, 8, se.Offset)
}

func TestSplitUnbalancedClosingBrace(t *testing.T) {
	_, err := Split([]byte(`{"a": 1}}`))
	require.Error(t, err)
}
