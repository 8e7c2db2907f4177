package logger

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	FromContext(ctx).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())

	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestFromContext_FollowsApplicationLevel(t *testing.T) {
	t.Cleanup(func() { New("info") })

	New("error")
	assert.Equal(t, zerolog.ErrorLevel, FromContext(context.Background()).GetLevel())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			New("warn")
		}()
		go func() {
			defer wg.Done()
			_ = FromContext(context.Background()).GetLevel()
		}()
	}
	wg.Wait()

	assert.Equal(t, zerolog.WarnLevel, FromContext(context.Background()).GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"user_id": "123",
		"action":  "test",
	})

	log.Info().Msg("test message")

	out := buf.String()
	assert.Contains(t, out, `"user_id":"123"`)
	assert.Contains(t, out, `"action":"test"`)
}
