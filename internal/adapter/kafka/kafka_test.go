package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anna948/WeatherWise-Pro/internal/domain"
	"github.com/Anna948/WeatherWise-Pro/internal/planner"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 6, 1, 15, 10, 0, 0, time.UTC)
	a := &planner.Assessment{
		ID:          "assess-1",
		Location:    domain.Location{Lat: 40.7, Lon: -74.0},
		Risk:        domain.RiskSummary{HotProb: 25, RainProb: 10, TotalDays: 20},
		GeneratedAt: now,
	}

	msg, err := serializeToMessage(a)
	require.NoError(t, err)

	assert.Equal(t, []byte("assess-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"id":"assess-1"`)
	assert.Contains(t, string(msg.Value), `"hot_prob":25`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, []byte("risk_assessment"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
