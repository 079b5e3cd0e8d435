package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/newsdata"
)

func TestConfigDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", base)

		dir, err := configDir()
		if err != nil {
			t.Fatalf("configDir() error: %v", err)
		}
		if dir != filepath.Join(base, appName) {
			t.Errorf("configDir() = %q, want %q", dir, filepath.Join(base, appName))
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := configDir()
		if err != nil {
			t.Fatalf("configDir() error: %v", err)
		}
		home, _ := os.UserHomeDir()
		if dir != filepath.Join(home, ".config", appName) {
			t.Errorf("configDir() = %q", dir)
		}
	})
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
api_key = "pub_file"
base_url = "https://proxy.example.test/api/1/"
timeout = "30s"
connect_timeout = "5s"
retries = 2
retry_delay = "250ms"
proxy = "user:pass@proxy.internal:3128"
decode = "map"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	fc, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig() error: %v", err)
	}
	cfg, err := fc.clientConfig()
	if err != nil {
		t.Fatalf("clientConfig() error: %v", err)
	}

	if cfg.APIKey != "pub_file" || cfg.BaseURL != "https://proxy.example.test/api/1/" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout != 30*time.Second || cfg.ConnectTimeout != 5*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.ConnectTimeout, cfg.Timeout)
	}
	if cfg.MaxRetries != 2 || cfg.RetryDelay != 250*time.Millisecond {
		t.Errorf("retries = %d / %v", cfg.MaxRetries, cfg.RetryDelay)
	}
	want := newsdata.Proxy{Host: "proxy.internal", Port: 3128, Username: "user", Password: "pass"}
	if cfg.Proxy != want {
		t.Errorf("proxy = %+v, want %+v", cfg.Proxy, want)
	}
	if cfg.Decode != newsdata.DecodeMap {
		t.Errorf("decode = %v", cfg.Decode)
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	fc, err := loadFileConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("loadFileConfig() error: %v", err)
	}
	cfg, err := fc.clientConfig()
	if err != nil {
		t.Fatalf("clientConfig() error: %v", err)
	}
	if cfg != newsdata.DefaultConfig("") {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `api_key = `},
		{"unknown key", `apikey = "x"`},
		{"bad duration", `timeout = "soon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte(tt.data), 0o600)

			_, err := loadFileConfig(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestClientConfig_Invalid(t *testing.T) {
	tests := []fileConfig{
		{APIKey: "k", Proxy: "socks5://proxy:1080"},
		{APIKey: "k", Decode: "xml"},
	}
	for _, fc := range tests {
		if _, err := fc.clientConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("clientConfig(%+v) err = %v, want INVALID_CONFIG", fc, err)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{envAPIKey: "env_key", envBaseURL: ""}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	fc := fileConfig{APIKey: "file_key", BaseURL: "https://file.test/"}
	fc.applyEnv(lookup)

	if fc.APIKey != "env_key" {
		t.Errorf("APIKey = %q, want env_key", fc.APIKey)
	}
	if fc.BaseURL != "https://file.test/" {
		t.Errorf("empty env var should not clear BaseURL, got %q", fc.BaseURL)
	}
}

func TestWriteFileConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	in := fileConfig{
		APIKey:     "pub_round",
		Timeout:    duration{45 * time.Second},
		Retries:    3,
		RetryDelay: duration{2 * time.Second},
		Proxy:      "proxy.internal:8080",
	}
	if err := writeFileConfig(path, in); err != nil {
		t.Fatalf("writeFileConfig() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	out, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig() error: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t)

	pathOut, _, err := execute(c, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	path := strings.TrimSpace(pathOut)
	if filepath.Base(path) != configFileName {
		t.Errorf("config path = %q", path)
	}

	if _, _, err := execute(c, "config", "init", "--api-key", "pub_secretkey", "--retries", "2"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	_, _, err = execute(c, "config", "init", "--api-key", "pub_other")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init err = %v, want INVALID_INPUT", err)
	}
	if _, _, err := execute(c, "config", "init", "--api-key", "pub_other", "--force"); err != nil {
		t.Errorf("init --force error: %v", err)
	}

	show, _, err := execute(c, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if strings.Contains(show, "pub_other") {
		t.Errorf("config show leaks the key:\n%s", show)
	}
	for _, want := range []string{"pub_****", newsdata.DefaultBaseURL, "(none)", "object"} {
		if !strings.Contains(show, want) {
			t.Errorf("config show missing %q:\n%s", want, show)
		}
	}
}

func TestConfigFlagPath(t *testing.T) {
	c := newTestCLI(t)
	custom := filepath.Join(t.TempDir(), "custom.toml")

	out, _, err := execute(c, "config", "path", "--config", custom)
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if strings.TrimSpace(out) != custom {
		t.Errorf("config path = %q, want %q", out, custom)
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":             "(not set)",
		"abc":          "****",
		"pub_12345678": "pub_****",
	}
	for in, want := range tests {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
