package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rations/internal/config"
	"rations/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEntitlementCommand(t *testing.T) {
	out, err := execute(t, "entitlement", "--family-size", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "family of 4")
	assert.Contains(t, out, "Wheat     20 kg")
	assert.Contains(t, out, "Kerosene  2 liters")
}

func TestEntitlementCommandJSON(t *testing.T) {
	out, err := execute(t, "entitlement", "--family-size", "3", "--json")
	require.NoError(t, err)

	var q domain.Quantities
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, domain.Quantities{Wheat: 15, Rice: 15, Sugar: 3, Kerosene: 1.5}, q)
}

func TestEntitlementCommandRejectsBadSize(t *testing.T) {
	_, err := execute(t, "entitlement", "--family-size", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "entitlement")
	assert.Error(t, err)
}

func TestSeedCheck(t *testing.T) {
	out, err := execute(t, "seed", "check")
	require.NoError(t, err)
	assert.Equal(t, "embedded default ok: 3 beneficiaries, 1 shops, 1 stocks, 4 distributions, 2 complaints, 1 admins\n", out)
}

func TestSeedCheckRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beneficiaries:\n  - id: 1\n    bogus: true\n"), 0o600))

	_, err := execute(t, "seed", "check", path)
	assert.Error(t, err)

	_, err = execute(t, "seed", "check", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildServer(t *testing.T) {
	cfg := config.Default()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.Addr = "127.0.0.1:0"

	srv, err := buildServer(cfg, slog.New(slog.DiscardHandler), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", srv.Addr)

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"role":"dealer","identifier":"DEALER001","secret":"dealer123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuildServerBadSeed(t *testing.T) {
	cfg := config.Default()
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := buildServer(cfg, slog.New(slog.DiscardHandler), time.Now())
	assert.Error(t, err)
}
