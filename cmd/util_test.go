package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/protonix-ai/protonix/internal/cli"
	"github.com/protonix-ai/protonix/internal/config"
	"github.com/protonix-ai/protonix/internal/dispatch"
	"github.com/protonix-ai/protonix/internal/logger"
	"github.com/protonix-ai/protonix/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainer(t *testing.T, cfg config.Config) *cli.Container {
	t.Helper()
	dir := t.TempDir()
	return &cli.Container{
		Config:   config.NewAppConfig(),
		Settings: cfg,
		Logger:   logger.Discard,
		Options:  cli.InitOptions{ConfigPath: filepath.Join(dir, "config.yaml")},
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	assert.NoError(t, loadDotEnv(), "a missing .env is fine")

	require.NoError(t, os.WriteFile(".env", []byte("PROTONIX_DOTENV_TEST=from-file\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("PROTONIX_DOTENV_TEST") })

	require.NoError(t, loadDotEnv())
	assert.Equal(t, "from-file", os.Getenv("PROTONIX_DOTENV_TEST"))
}

func TestBuildClient_RemoteUsesRelayCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/targets", r.URL.Path)
		_ = json.NewEncoder(w).Encode(relay.TargetsResponse{Targets: []relay.TargetInfo{
			{ID: "claude", Name: "Claude", Enabled: true, Default: true},
			{ID: "mistral", Name: "Mistral", Enabled: true},
		}})
	}))
	defer srv.Close()

	c := testContainer(t, config.Default())
	cl, err := buildClient(context.Background(), c, clientFlags{relayURL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, 2, cl.catalog.Len())
	_, ok := cl.catalog.Lookup("mistral")
	assert.True(t, ok)
	assert.Equal(t, "claude", cl.catalog.Default().ID, "gpt is not served so the relay default wins")
}

func TestBuildClient_RemoteFallsBackToConfig(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := testContainer(t, config.Default())
	cl, err := buildClient(context.Background(), c, clientFlags{relayURL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, len(config.DefaultTargets()), cl.catalog.Len())
	assert.Equal(t, config.DefaultTargetID, cl.catalog.Default().ID)
}

func TestBuildClient_Local(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := config.Default()
	cfg.Targets = []config.TargetConfig{{
		ID:        "solo",
		Name:      "Solo",
		Model:     "vendor/model",
		APIKeyEnv: "PROTONIX_TEST_UNSET_KEY",
	}}
	cfg.Server.DefaultTarget = "solo"
	cfg.Client.DefaultTarget = "solo"
	cfg.ApplyDefaults()

	cl, err := buildClient(context.Background(), testContainer(t, cfg), clientFlags{local: true})
	require.NoError(t, err)
	assert.Equal(t, "solo", cl.catalog.Default().ID)

	infos, err := cl.lister.Targets(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Enabled)

	_, err = cl.relay.Chat(context.Background(), "solo", "hello")
	var rerr *dispatch.ReplyError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusBadRequest, rerr.Status)
	assert.Equal(t, "Error: API Key for solo is missing in server environment.", rerr.Reply)
}

func TestOpenRecorder_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Client.History = false

	recorder, closeStore, err := openRecorder(testContainer(t, cfg))
	require.NoError(t, err)
	require.NotNil(t, recorder)
	closeStore()
}
