package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
)

func TestNewLogger(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := NewLogger(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("rejects bad format", func(t *testing.T) {
		_, err := NewLogger(&Config{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})

	t.Run("rejects bad level", func(t *testing.T) {
		_, err := NewLogger(&Config{Level: "loud", Format: "json"})
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, NewDefaultConfig().Validate())
	})

	t.Run("empty field value rejected", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Fields["empty"] = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestContextFields(t *testing.T) {
	g := caseid.NewGenerator()

	t.Run("case id travels in context", func(t *testing.T) {
		id := g.New()
		ctx := WithCaseID(context.Background(), id)

		fields := ContextFields(ctx)
		require.Len(t, fields, 1)
		assert.Equal(t, "case_id", fields[0].Key)
		assert.Equal(t, id.String(), fields[0].String)

		got, ok := CaseIDFrom(ctx)
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("turn id is included", func(t *testing.T) {
		ctx := WithTurnID(WithCaseID(context.Background(), g.New()), "turn-1")
		assert.Len(t, ContextFields(ctx), 2)
	})

	t.Run("bare context has no fields", func(t *testing.T) {
		assert.Empty(t, ContextFields(context.Background()))
	})
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	id := caseid.NewGenerator().New()
	ctx := WithCaseID(context.Background(), id)

	tl.Info(ctx, "case switched")

	tl.AssertLogged(t, zapcore.InfoLevel, "case switched")
	tl.AssertField(t, "case switched", "case_id", id.String())
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "case switched")

	tl.Reset()
	assert.Empty(t, tl.All())
}
