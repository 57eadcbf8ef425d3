package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	urfave "github.com/urfave/cli/v2"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "aipulse"
	keyringUser    = "newsapi_key"
	keyFileName    = "newsapi_key"
	newsAPIKeyEnv  = "NEWS_API_KEY"
)

var (
	authDeleteFlag = &urfave.BoolFlag{
		Name:  "delete",
		Usage: "Remove the stored key instead of setting one",
	}

	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Store the NewsAPI key in the OS keychain",
		Flags:           []urfave.Flag{authDeleteFlag},
		Action:          cmdAuth,
	}
)

func cmdAuth(c *urfave.Context) error {
	if c.Bool(authDeleteFlag.Name) {
		return deleteNewsAPIKey()
	}

	fmt.Print("NewsAPI key: ")
	var key string
	if _, err := fmt.Scanln(&key); err != nil {
		return fmt.Errorf("reading key: %w", err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := saveNewsAPIKey(key); err != nil {
		return fmt.Errorf("saving key: %w", err)
	}

	fmt.Println("Key saved to OS keychain")
	return nil
}

func saveNewsAPIKey(key string) error {
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		keyPath := path.Join(getHomeDir(), keyFileName)
		return os.WriteFile(keyPath, []byte(key), 0600)
	}

	// Clean up the fallback file if it exists
	os.Remove(path.Join(getHomeDir(), keyFileName))

	return nil
}

func deleteNewsAPIKey() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil {
		slog.Debug("keychain delete failed", "error", err)
	}
	os.Remove(path.Join(getHomeDir(), keyFileName))
	fmt.Println("Key removed")
	return nil
}

// getNewsAPIKey resolves the key: explicit env var first, then the OS
// keychain, then the fallback file. Empty string means no key.
func getNewsAPIKey() string {
	if key := os.Getenv(newsAPIKeyEnv); key != "" {
		return key
	}

	if key, err := keyring.Get(keyringService, keyringUser); err == nil && key != "" {
		return key
	}

	b, err := os.ReadFile(path.Join(getHomeDir(), keyFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
