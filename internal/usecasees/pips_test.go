package usecasees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipSize(t *testing.T) {
	assert.Equal(t, 0.0001, PipSize("EURUSD"))
	assert.Equal(t, 0.0001, PipSize("eurusd"))
	assert.Equal(t, 0.01, PipSize("USDJPY"))
	assert.Equal(t, 0.01, PipSize("EURJPY"))
	assert.Equal(t, 0.1, PipSize("XAUUSD"))
	assert.Equal(t, float64(1), PipSize("US30"))
}

func TestResolveStopPips(t *testing.T) {
	// A stop sits below a long entry regardless of how the offset is signed.
	assert.Equal(t, 1.1030, ResolveStopPips(1.1050, -20, 0.0001, false))
	assert.Equal(t, 1.1030, ResolveStopPips(1.1050, 20, 0.0001, false))

	// And above a short entry.
	assert.Equal(t, 1.1070, ResolveStopPips(1.1050, -20, 0.0001, true))
	assert.Equal(t, 1.1070, ResolveStopPips(1.1050, 20, 0.0001, true))

	assert.Equal(t, 2405.0, ResolveStopPips(2410, 50, 0.1, false))
}

func TestResolveTargetPips(t *testing.T) {
	assert.Equal(t, 1.1070, ResolveTargetPips(1.1050, 20, 0.0001, false))
	assert.Equal(t, 1.1030, ResolveTargetPips(1.1050, 20, 0.0001, true))
	assert.Equal(t, 146.50, ResolveTargetPips(147.00, 50, 0.01, true))
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 1.1030, roundPrice(1.1050-20*0.0001, 0.0001))
	assert.Equal(t, 147.01, roundPrice(147.0099999999, 0.01))
	assert.Equal(t, 2410.0, roundPrice(2409.99999, 0.1))
}
