package cli

import "testing"

func TestLogoutClearsToken(t *testing.T) {
	setTestConfigDir(t)

	cfg := CLIConfig{Token: "eyJtesttoken123", ServerURL: "http://myhost:9090"}
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := runLogout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Token != "" {
		t.Errorf("token = %q, want empty after logout", loaded.Token)
	}
	if loaded.ServerURL != "http://myhost:9090" {
		t.Errorf("server_url = %q, want preserved after logout", loaded.ServerURL)
	}
}

func TestLogoutWhenNotLoggedIn(t *testing.T) {
	setTestConfigDir(t)

	if err := runLogout(); err != nil {
		t.Fatalf("logout with no config: %v", err)
	}
}
