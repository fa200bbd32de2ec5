package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/errors"
)

func writeEnv(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSetupReadsEnvFile(t *testing.T) {
	path := writeEnv(t, "ENGINE_URL=http://engine:9000\nPLAYER_COLOR=W\nBOARD_SIZE=13\nSECTION_LEFT=2\nCONFIRM_DELAY_MS=250\n")

	cfg, err := Setup(path)
	require.NoError(t, err)

	assert.Equal(t, "http://engine:9000", cfg.EngineUrl)
	assert.Equal(t, 13, cfg.BoardSize)
	color, err := cfg.Color()
	require.NoError(t, err)
	assert.Equal(t, game.ColorWhite, color)
	assert.Equal(t, 250*time.Millisecond, cfg.ConfirmDelay())
	assert.Equal(t, 3*time.Second, cfg.MessageTimeout())

	bc := cfg.BoardConfig()
	assert.Equal(t, 500, bc.SizeInPixels)
	assert.Equal(t, game.Section{Top: -1, Left: 2, Right: -1, Bottom: -1}, bc.Section)
}

func TestSetupWithoutFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BOARD_SIZE", "9")

	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.BoardSize)
	assert.Equal(t, "B", cfg.PlayerColor)
	assert.Equal(t, 500*time.Millisecond, cfg.ConfirmDelay())
}

func TestSetupRejectsInvalidValues(t *testing.T) {
	for _, content := range []string{
		"BOARD_SIZE=26\n",
		"PLAYER_COLOR=red\n",
		"BOARD_WIDTH=0\n",
		"SECTION_TOP=-3\n",
		"ENGINE_URL=ws://localhost\n",
	} {
		_, err := Setup(writeEnv(t, content))
		assert.ErrorIs(t, err, errors.ErrInvalidConfig, content)
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug", filepath.Join(t.TempDir(), "client.log"))
	require.NoError(t, err)
	log.Debug("hello")

	_, err = NewLogger("loud", "")
	assert.Error(t, err)
}
