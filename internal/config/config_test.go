package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
shop_id_url: https://example.org/shopid.yaml
user_agent: test-agent
cookies:
  - pt_key=first
  - pt_key=second
thread: 3
screening:
  bean: 25
  voucher: false
register:
  v_sex: "女"
  v_birthday: "1995-05-05"
  v_name: "tester"
logging:
  level: error
  file: ""
`)
	t.Setenv("BRANDMEMBER_CONFIG", path)
	t.Setenv("BRANDMEMBER_COOKIES", "")
	t.Setenv("BRANDMEMBER_SHOP_ID_URL", "")

	cfg := Load()

	assert.Equal(t, "https://example.org/shopid.yaml", cfg.CatalogURL)
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Equal(t, []string{"pt_key=first", "pt_key=second"}, cfg.Cookies)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, 25, cfg.Screening.MinBean)
	assert.False(t, cfg.Screening.Voucher)
	assert.Equal(t, "女", cfg.Registrant.Sex)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("BRANDMEMBER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("BRANDMEMBER_COOKIES", "")
	t.Setenv("BRANDMEMBER_SHOP_ID_URL", "")

	cfg := Load()

	assert.Empty(t, cfg.Cookies)
	assert.Equal(t, 5, cfg.Threads)
	assert.Equal(t, "shopid.yaml", cfg.CatalogFile)
	assert.Equal(t, 30*time.Second, cfg.Platform.Timeout)
	assert.Equal(t, "https://api.m.jd.com/client.action", cfg.Platform.ActionURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
cookies:
  - from-file
shop_id_url: https://file.example.org/shopid.yaml
`)
	t.Setenv("BRANDMEMBER_CONFIG", path)
	t.Setenv("BRANDMEMBER_COOKIES", "pt_key=a, pt_key=b ,")
	t.Setenv("BRANDMEMBER_SHOP_ID_URL", "https://env.example.org/shopid.yaml")

	cfg := Load()

	assert.Equal(t, []string{"pt_key=a", "pt_key=b"}, cfg.Cookies)
	assert.Equal(t, "https://env.example.org/shopid.yaml", cfg.CatalogURL)
}

func TestLoadNormalizesThreadCount(t *testing.T) {
	path := writeConfig(t, "thread: 0\n")
	t.Setenv("BRANDMEMBER_CONFIG", path)
	t.Setenv("BRANDMEMBER_COOKIES", "")
	t.Setenv("BRANDMEMBER_SHOP_ID_URL", "")

	cfg := Load()
	assert.Equal(t, 1, cfg.Threads)
}
