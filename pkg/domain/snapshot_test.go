package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsepredict/sentinel/pkg/domain"
)

func sampleSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Environment: domain.Environment{Temp: 32.5, Rain: 120.5, AQI: 165.0, Humidity: 78.0},
		Predictions: map[string]domain.Prediction{
			"vector":      {Score: 10.0, Status: domain.SeverityCritical},
			"respiratory": {Score: 4.0, Status: domain.SeverityWarning},
		},
		TopTrend:  "Dengue",
		Inventory: map[string]int{"masks": 454, "oxygen": 32},
		Agent: domain.Agent{
			Summary: "**High vector risk.**",
			Actions: []domain.Action{
				{ID: 1, Title: "Broadcast Dengue Alert", Type: domain.TypeCommunication, Executable: true,
					Payload: map[string]any{"action": "ALERT_ALL"}},
				{ID: 3, Title: "Deploy Vector Control Teams", Type: domain.TypeProtocol, Executable: false},
			},
		},
	}
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, domain.SeverityCritical, domain.SeverityFor(10.0))
	assert.Equal(t, domain.SeverityCritical, domain.SeverityFor(7.0))
	assert.Equal(t, domain.SeverityWarning, domain.SeverityFor(6.9))
	assert.Equal(t, domain.SeverityWarning, domain.SeverityFor(4.0))
	assert.Equal(t, domain.SeverityNormal, domain.SeverityFor(3.9))
	assert.Equal(t, domain.SeverityNormal, domain.SeverityFor(0))
}

func TestSnapshotClone_Isolation(t *testing.T) {
	orig := sampleSnapshot()
	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.Predictions["vector"] = domain.Prediction{Score: 0, Status: domain.SeverityNormal}
	clone.Inventory["masks"] = 0
	clone.Agent.Actions[0].Status = domain.StatusExecuted
	clone.Agent.Actions[0].Payload["action"] = "changed"

	assert.Equal(t, 10.0, orig.Predictions["vector"].Score)
	assert.Equal(t, 454, orig.Inventory["masks"])
	assert.Equal(t, domain.ActionStatus(""), orig.Agent.Actions[0].Status)
	assert.Equal(t, "ALERT_ALL", orig.Agent.Actions[0].Payload["action"])
}

func TestSnapshotClone_Nil(t *testing.T) {
	var s *domain.Snapshot
	assert.Nil(t, s.Clone())
}

func TestActionByID(t *testing.T) {
	snap := sampleSnapshot()

	a := snap.ActionByID(3)
	require.NotNil(t, a)
	assert.Equal(t, "Deploy Vector Control Teams", a.Title)

	assert.Nil(t, snap.ActionByID(99))
}

func TestEffectiveStatus(t *testing.T) {
	assert.Equal(t, domain.StatusPending, domain.Action{}.EffectiveStatus())
	assert.Equal(t, domain.StatusExecuted, domain.Action{Status: domain.StatusExecuted}.EffectiveStatus())
}

func TestTopTrendOf(t *testing.T) {
	t.Run("Picks Max", func(t *testing.T) {
		got := domain.TopTrendOf(map[string]int{"dengue": 90, "flu": 40, "cholera": 10})
		assert.Equal(t, "Dengue", got)
	})

	t.Run("Tie Breaks Lexicographically", func(t *testing.T) {
		got := domain.TopTrendOf(map[string]int{"flu": 50, "dengue": 50})
		assert.Equal(t, "Dengue", got)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", domain.TopTrendOf(nil))
	})
}
