package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ms-events/internal/config"
	eventkafka "ms-events/internal/kafka"
	"ms-events/internal/logger"
	"ms-events/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func newProducer(w *MockWriter) *eventkafka.Producer {
	return &eventkafka.Producer{
		Writer: w,
		Topics: config.TopicConfig{EventCreated: "events.event.created", EventDeleted: "events.event.deleted"},
		Logger: logger.NewNop(),
	}
}

func TestPublishEventCreated(t *testing.T) {
	w := new(MockWriter)
	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).([]kafka.Message)
	}).Return(nil)

	event := models.Event{
		ID:       7,
		Title:    "Meetup",
		Date:     models.NewDate(2024, 5, 1),
		Time:     models.NewTimeOfDay(18, 0, 0, 0),
		AuthorID: 1,
	}
	require.NoError(t, newProducer(w).PublishEventCreated(context.Background(), event))

	require.Len(t, sent, 1)
	assert.Equal(t, "events.event.created", sent[0].Topic)
	assert.Equal(t, "event:7", string(sent[0].Key))

	var dto models.EventChangeDto
	require.NoError(t, json.Unmarshal(sent[0].Value, &dto))
	assert.Equal(t, models.EventChangeCreated, dto.Type)
	assert.Equal(t, int64(7), dto.EventID)
	require.NotNil(t, dto.Event)
	assert.Equal(t, "Meetup", dto.Event.Title)
	assert.Equal(t, "2024-05-01", dto.Event.Date.String())
}

func TestPublishEventDeleted(t *testing.T) {
	w := new(MockWriter)
	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).([]kafka.Message)
	}).Return(nil)

	require.NoError(t, newProducer(w).PublishEventDeleted(context.Background(), 7))

	require.Len(t, sent, 1)
	assert.Equal(t, "events.event.deleted", sent[0].Topic)

	var dto models.EventChangeDto
	require.NoError(t, json.Unmarshal(sent[0].Value, &dto))
	assert.Equal(t, models.EventChangeDeleted, dto.Type)
	assert.Nil(t, dto.Event)
}

func TestPublishFailureIsReturned(t *testing.T) {
	w := new(MockWriter)
	w.On("WriteMessages", mock.Anything).Return(errors.New("broker down"))

	err := newProducer(w).PublishEventDeleted(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events.event.deleted")
	assert.Contains(t, err.Error(), "broker down")
}

func TestPublishRejectsInvalidEvent(t *testing.T) {
	w := new(MockWriter)

	err := newProducer(w).PublishEventDeleted(context.Background(), 0)
	assert.Error(t, err)
	w.AssertNotCalled(t, "WriteMessages", mock.Anything)
}

func TestClose(t *testing.T) {
	w := new(MockWriter)
	w.On("Close").Return(nil)

	require.NoError(t, newProducer(w).Close())
	w.AssertExpectations(t)
}
