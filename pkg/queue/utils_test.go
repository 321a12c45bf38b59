package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	task := &Task{ID: "task_1", Type: TaskTypeSendNotification}
	require.NoError(t, task.Validate())
	assert.NotNil(t, task.Data)

	assert.Error(t, (&Task{Type: TaskTypeSendNotification}).Validate())
	assert.Error(t, (&Task{ID: "task_1"}).Validate())
}

func TestTaskDataAccessorsAfterJSONRoundTrip(t *testing.T) {
	original := &Task{
		ID:   "task_1",
		Type: TaskTypeReconcileAlert,
		Data: map[string]interface{}{
			"event_id": int64(42),
			"drift":    -3,
			"amount":   99.95,
			"reason":   "drift",
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Task
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// JSON turns every number into float64; the accessors hide that
	assert.Equal(t, int64(42), decoded.GetInt64("event_id"))
	assert.Equal(t, -3, decoded.GetInt("drift"))
	assert.Equal(t, 99.95, decoded.GetFloat("amount"))
	assert.Equal(t, "drift", decoded.GetString("reason"))
	assert.Equal(t, "", decoded.GetString("missing"))
	assert.Equal(t, 0, decoded.GetInt("missing"))
}
