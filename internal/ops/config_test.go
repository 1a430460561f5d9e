package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
	"main/internal/trader"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, trader.DefaultConfig(), loaded.Engine)
	assert.Equal(t, 1000, loaded.Sim.Ticks)
	assert.Equal(t, 4, loaded.Sim.TradeTickEvery)
}

func TestLoadParsesDecimalPrices(t *testing.T) {
	path := writeConfig(t, `{
		"engine": {
			"priceScale": 2,
			"tickSize": "1.00",
			"minSpread": "1.50",
			"maxSpread": "5.00",
			"positionLimit": 200
		}
	}`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, schema.Price(100), loaded.Engine.TickSize)
	assert.Equal(t, schema.Price(150), loaded.Engine.MinSpread)
	assert.Equal(t, schema.Price(500), loaded.Engine.MaxSpread)
	assert.Equal(t, schema.Volume(200), loaded.Engine.PositionLimit)

	// Untouched fields keep their defaults.
	assert.Equal(t, trader.DefaultConfig().SkewChase, loaded.Engine.SkewChase)
}

func TestLoadRejectsInexactPrice(t *testing.T) {
	path := writeConfig(t, `{
		"engine": {"priceScale": 2, "tickSize": "0.001"}
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvertedSpreads(t *testing.T) {
	path := writeConfig(t, `{
		"engine": {"minSpread": "500", "maxSpread": "150"}
	}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestWriterConfigAppliesOverrides(t *testing.T) {
	jc := JournalConfig{Dir: "/tmp/journal", QueueSize: 128, FlushMillis: 50}
	wc := jc.WriterConfig()
	assert.Equal(t, "/tmp/journal", wc.Dir)
	assert.Equal(t, 128, wc.QueueSize)
	assert.Equal(t, int64(50_000_000), int64(wc.FlushInterval))
}
