package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2023-10-05")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2023, Month: time.October, Day: 5}, d)
	assert.Equal(t, "2023-10-05", d.String())
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "2023-13-01", "05/10/2023", "2023-10-05T00:00:00Z"} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := Date{Year: 1815, Month: time.December, Day: 10}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1815-12-10"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestUnmarshalJSON_RejectsNonString(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`20231005`), &d))
}

func TestIsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, Date{Year: 2023, Month: time.May, Day: 1}.IsZero())
}
