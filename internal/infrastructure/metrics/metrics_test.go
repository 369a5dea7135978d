package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "hgigs.backend/internal/domain/errors"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(EngineOperations.WithLabelValues("PayOrder", "ok"))
	ObserveOperation("PayOrder", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(EngineOperations.WithLabelValues("PayOrder", "ok")))

	before = testutil.ToFloat64(EngineOperations.WithLabelValues("PayOrder", domainerrors.CodeInvalidPayment))
	ObserveOperation("PayOrder", domainerrors.ErrAmountMismatch)
	assert.Equal(t, before+1, testutil.ToFloat64(EngineOperations.WithLabelValues("PayOrder", domainerrors.CodeInvalidPayment)))

	before = testutil.ToFloat64(EngineOperations.WithLabelValues("PayOrder", domainerrors.CodeInternal))
	ObserveOperation("PayOrder", errors.New("db down"))
	assert.Equal(t, before+1, testutil.ToFloat64(EngineOperations.WithLabelValues("PayOrder", domainerrors.CodeInternal)))
}

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		Register(reg)
		Register(reg)
	})
}
