package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/engineers-api/internal/ai"
	"github.com/aanand-mishra/engineers-api/internal/metrics"
)

func TestInstrument_CountsOutcomes(t *testing.T) {
	const provider = "instrument-test"
	okBefore := testutil.ToFloat64(metrics.AIRequestsTotal.WithLabelValues(provider, "ok"))
	errBefore := testutil.ToFloat64(metrics.AIRequestsTotal.WithLabelValues(provider, "error"))

	fail := true
	c := ai.Instrument(ai.ClientFunc(func(_ context.Context, prompt string) (string, error) {
		if fail {
			return "", errors.Join(ai.ErrProvider, errors.New("unavailable"))
		}
		return "answer to " + prompt, nil
	}), provider)

	_, err := c.Chat(context.Background(), "q")
	assert.ErrorIs(t, err, ai.ErrProvider)

	fail = false
	text, err := c.Chat(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "answer to q", text)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.AIRequestsTotal.WithLabelValues(provider, "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.AIRequestsTotal.WithLabelValues(provider, "error")))
}
