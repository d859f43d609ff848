package events

import (
	"context"
	"testing"

	"campus-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DisabledIsNop(t *testing.T) {
	pub, err := New(utils.MQTTConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), TopicBookingsCreated, map[string]int{"count": 1}))
}

func TestMQTTPublisher_Topic(t *testing.T) {
	p := &MQTTPublisher{prefix: "campus"}
	assert.Equal(t, "campus/bookings/created", p.Topic(TopicBookingsCreated))

	p = &MQTTPublisher{}
	assert.Equal(t, "timetable/imported", p.Topic(TopicTimetableImported))
}
