package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both backends must satisfy the driver contract.
var (
	_ Driver = (*LSM6DSL)(nil)
	_ Driver = (*MPU9250)(nil)
)

func TestODRBits(t *testing.T) {
	bits, err := lsmODRBits(3330)
	require.NoError(t, err)
	assert.Equal(t, byte(0x9), bits)

	bits, err = lsmODRBits(12.5)
	require.NoError(t, err)
	assert.Equal(t, byte(0x1), bits)

	_, err = lsmODRBits(1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported ODR")
}

func TestFullScaleBits(t *testing.T) {
	tests := []struct {
		g    int
		bits byte
		sens float64
	}{
		{2, 0x0, 0.061},
		{4, 0x2, 0.122},
		{8, 0x3, 0.244},
		{16, 0x1, 0.488},
	}
	for _, tt := range tests {
		bits, sens, err := lsmFullScaleBits(tt.g)
		require.NoError(t, err)
		assert.Equal(t, tt.bits, bits, "±%dg", tt.g)
		assert.Equal(t, tt.sens, sens, "±%dg", tt.g)
	}

	_, _, err := lsmFullScaleBits(32)
	require.Error(t, err)
}

func TestToMilliG(t *testing.T) {
	d := &LSM6DSL{sensMG: 0.122} // ±4g

	// Full positive scale lands near +4000 mg.
	assert.Equal(t, int32(3998), d.toMilliG(32767))
	assert.Equal(t, int32(-3998), d.toMilliG(-32768))
	assert.Equal(t, int32(0), d.toMilliG(0))
	// One LSB rounds to 0 mg at this sensitivity.
	assert.Equal(t, int32(0), d.toMilliG(1))
	assert.Equal(t, int32(1), d.toMilliG(10))
}

func TestRegisterMapCoversControlAndOutput(t *testing.T) {
	regs := LSM6DSLRegisterMap()
	require.NotEmpty(t, regs)

	byAddr := make(map[byte]RegisterInfo, len(regs))
	for _, r := range regs {
		_, dup := byAddr[r.Address]
		assert.False(t, dup, "duplicate register 0x%02X", r.Address)
		byAddr[r.Address] = r
	}

	for _, addr := range []byte{lsmRegWhoAmI, lsmRegCtrl1XL, lsmRegCtrl3C, lsmRegOutXLXL} {
		assert.Contains(t, byAddr, addr, "register 0x%02X missing from map", addr)
	}
}
