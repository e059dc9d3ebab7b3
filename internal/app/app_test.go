package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BrandMember/internal/config"
	"BrandMember/internal/infrastructure/catalog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakePlatform(t *testing.T, binds *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/shop", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>var cfg = { venderId: '555' };</script></body></html>`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msg":"success","data":{"userInfo":{"baseInfo":{"nickname":"e2e"}},"assetInfo":{"beanNum":7}}}`))
	})
	mux.HandleFunc("/client.action", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("functionId") {
		case "getShopOpenCardInfo":
			_, _ = w.Write([]byte(`{
				"success": true,
				"result": {
					"userInfo": {"openCardStatus": false},
					"interestsRuleList": [
						{"prizeName":"京豆","discountString":"20","interestsInfo":{"activityId":5}}
					]
				}
			}`))
		case "bindWithVender":
			atomic.AddInt32(binds, 1)
			_, _ = w.Write([]byte(`{"success":true,"busiCode":"0","result":{"giftInfo":{"giftList":[]}}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srvURL, catalogPath string) config.Config {
	return config.Config{
		CatalogFile: catalogPath,
		UserAgent:   "test-agent",
		Cookies:     []string{"pt_key=live"},
		Threads:     2,
		Screening:   config.ScreeningConfig{MinBean: 10, Voucher: true},
		Registrant:  config.RegistrantConfig{Sex: "未知", Birthday: "1990-01-01", Name: "tester"},
		Platform: config.PlatformConfig{
			UserInfoURL: srvURL + "/user",
			ActionURL:   srvURL + "/client.action",
			ShopURL:     srvURL + "/shop",
			Timeout:     5 * time.Second,
		},
		Logging: config.LoggingConfig{Level: "error"},
	}
}

func TestRunEnrollsWholeCatalog(t *testing.T) {
	t.Parallel()

	var binds int32
	srv := fakePlatform(t, &binds)

	catalogPath := filepath.Join(t.TempDir(), "shopid.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("update_time: 2024-01-01\nshop_id:\n  - 1\n  - 2\n  - 3\n"), 0o644))

	application := New(testConfig(srv.URL, catalogPath), discardLogger())
	require.NoError(t, application.Run(context.Background()))

	assert.Equal(t, int32(3), atomic.LoadInt32(&binds), "every catalog shop must get one enrollment attempt")

	raw, err := os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2024-01-01", "catalog file must stay untouched without a newer remote")
}

func TestRunAbortsWithoutCatalog(t *testing.T) {
	t.Parallel()

	var binds int32
	srv := fakePlatform(t, &binds)

	cfg := testConfig(srv.URL, filepath.Join(t.TempDir(), "shopid.yaml"))
	application := New(cfg, discardLogger())

	err := application.Run(context.Background())
	require.ErrorIs(t, err, catalog.ErrMissing)
	assert.Zero(t, atomic.LoadInt32(&binds))
}

func TestRunRequiresAccounts(t *testing.T) {
	t.Parallel()

	var binds int32
	srv := fakePlatform(t, &binds)

	catalogPath := filepath.Join(t.TempDir(), "shopid.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("update_time: 2024-01-01\nshop_id: [1]\n"), 0o644))

	cfg := testConfig(srv.URL, catalogPath)
	cfg.Cookies = nil
	application := New(cfg, discardLogger())

	require.Error(t, application.Run(context.Background()))
}
