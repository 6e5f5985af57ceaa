package model

import "testing"

func TestWebsocketBaseFallsBackToBaseURL(t *testing.T) {
	cfg := APIConfig{BaseURL: "https://miwi.tv/api"}
	if got := cfg.WebsocketBase(); got != "https://miwi.tv/api" {
		t.Fatalf("WebsocketBase() = %q, want the base url", got)
	}
}

func TestWebsocketBasePrefersOverride(t *testing.T) {
	cfg := APIConfig{
		BaseURL:       "https://miwi.tv/api",
		WebsocketHost: "wss://status.miwi.tv",
	}
	if got := cfg.WebsocketBase(); got != "wss://status.miwi.tv" {
		t.Fatalf("WebsocketBase() = %q, want the override", got)
	}
}

func TestDefaultConfigHasUsableWebsocketBase(t *testing.T) {
	cfg := defaultAppConfig()
	if got := cfg.API.WebsocketBase(); got == "" {
		t.Fatal("default config must yield a websocket base")
	}
}
