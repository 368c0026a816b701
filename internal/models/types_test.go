package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"ms-events/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var d models.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01"`), &d))
	assert.Equal(t, "2024-05-01", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"2024-13-01"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"01/05/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240501`), &d))
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"time", time.Date(2024, 5, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))},
		{"string", "2024-05-01"},
		{"bytes", []byte("2024-05-01")},
		{"timestamp string", "2024-05-01 00:00:00+00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d models.Date
			require.NoError(t, d.Scan(tt.value))
			assert.Equal(t, "2024-05-01", d.String())
		})
	}

	var d models.Date
	assert.Error(t, d.Scan(nil))
	assert.Error(t, d.Scan(42))
}

func TestTimeOfDayJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"18:00:00"`, "18:00:00"},
		{`"18:00"`, "18:00:00"},
		{`"09:30:15.5"`, "09:30:15.5"},
	}

	for _, tt := range tests {
		var tod models.TimeOfDay
		require.NoError(t, json.Unmarshal([]byte(tt.in), &tod), tt.in)
		assert.Equal(t, tt.want, tod.String())
	}

	var tod models.TimeOfDay
	assert.Error(t, json.Unmarshal([]byte(`"25:00:00"`), &tod))
	assert.Error(t, json.Unmarshal([]byte(`"six pm"`), &tod))
	assert.Error(t, json.Unmarshal([]byte(`1800`), &tod))

	out, err := json.Marshal(models.NewTimeOfDay(18, 0, 0, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `"18:00:00"`, string(out))
}

func TestTimeOfDayScan(t *testing.T) {
	values := []interface{}{
		time.Date(0, 1, 1, 18, 0, 0, 0, time.UTC),
		"18:00:00",
		[]byte("18:00:00"),
		"0000-01-01 18:00:00+00:00",
		"0000-01-01T18:00:00Z",
	}

	for _, v := range values {
		var tod models.TimeOfDay
		require.NoError(t, tod.Scan(v), "%v", v)
		assert.Equal(t, "18:00:00", tod.String())
	}

	var tod models.TimeOfDay
	assert.Error(t, tod.Scan(nil))
	assert.Error(t, tod.Scan("later"))
}

func TestValuers(t *testing.T) {
	v, err := models.NewDate(2024, time.May, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", v)

	v, err = models.NewTimeOfDay(18, 0, 0, 0).Value()
	require.NoError(t, err)
	assert.Equal(t, "18:00:00", v)
}

func TestNewEventChangeDto(t *testing.T) {
	event := &models.Event{ID: 3, Title: "Meetup"}

	dto, err := models.NewEventChangeDto(models.EventChangeCreated, 3, event)
	require.NoError(t, err)
	assert.Equal(t, "event:3", dto.Key())
	assert.Equal(t, models.EventChangeCreated, dto.Type)
	assert.NotEmpty(t, dto.MessageID.String())

	dto, err = models.NewEventChangeDto(models.EventChangeDeleted, 3, nil)
	require.NoError(t, err)
	out, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"event":`)

	_, err = models.NewEventChangeDto(models.EventChangeCreated, 3, nil)
	assert.Error(t, err)
	_, err = models.NewEventChangeDto(models.EventChangeDeleted, 0, nil)
	assert.Error(t, err)
}
