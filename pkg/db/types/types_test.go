package dbtypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListAcceptsStringOrArray(t *testing.T) {
	var single StringList
	require.NoError(t, json.Unmarshal([]byte(`" Wrap "`), &single))
	assert.Equal(t, StringList{"Wrap"}, single)

	var many StringList
	require.NoError(t, json.Unmarshal([]byte(`["Wrap", "", "Kimono"]`), &many))
	assert.Equal(t, StringList{"Wrap", "Kimono"}, many)

	var bad StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))

	out, err := json.Marshal(StringList(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestStringListDatabaseRoundTrip(t *testing.T) {
	value, err := StringList{"Wrap", "Kimono Sleeve"}.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, StringList{"Wrap", "Kimono Sleeve"}, scanned)
	assert.Equal(t, "Wrap", scanned.First())
	assert.Equal(t, "", StringList{}.First())
}

func TestJSONScanNil(t *testing.T) {
	j := NewJSON([]string{"a"})
	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j.Data)

	require.NoError(t, j.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, []string{"x", "y"}, j.Data)
	assert.Error(t, j.Scan(12))
}

func TestStringListNilEncodesEmptyArray(t *testing.T) {
	value, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)
	assert.Equal(t, "text[]", StringList{}.GormDataType())

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Empty(t, scanned)
}
