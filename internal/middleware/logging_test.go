package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

func newContext(t *testing.T) tele.Context {
	t.Helper()

	bot, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	require.NoError(t, err)

	return bot.NewContext(tele.Update{
		ID: 10,
		Message: &tele.Message{
			Text:   "hi",
			Sender: &tele.User{ID: 42},
			Chat:   &tele.Chat{ID: 42},
		},
	})
}

func TestLogging_PassesThrough(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	called := false

	h := Logging(zap.New(core))(func(c tele.Context) error {
		called = true
		return nil
	})

	err := h(newContext(t))

	assert.NoError(t, err)
	assert.True(t, called)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Update handled", entry.Message)
	assert.Equal(t, int64(42), entry.ContextMap()["user_id"])
}

func TestLogging_ReturnsHandlerError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	want := errors.New("boom")

	h := Logging(zap.New(core))(func(c tele.Context) error {
		return want
	})

	err := h(newContext(t))

	assert.ErrorIs(t, err, want)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
