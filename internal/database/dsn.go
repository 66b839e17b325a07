package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/saltyorg/plantapi/internal/config"
)

// sslmodes weaker than require
var weakSSLModes = map[string]bool{
	"":        true,
	"disable": true,
	"allow":   true,
	"prefer":  true,
}

// PostgresDSN builds the connection string for the networked store.
// DatabaseURL wins over the discrete host/name/user/password/port settings.
// The result always carries sslmode=require or a stricter mode.
func PostgresDSN(cfg config.Database) (string, error) {
	if cfg.DatabaseURL != "" {
		return requireTLS(cfg.DatabaseURL)
	}

	if cfg.Host == "" {
		return "", fmt.Errorf("DATABASE_URL or DB_HOST must be set")
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	u := &url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{"require"}}.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}

	return u.String(), nil
}

// requireTLS upgrades the sslmode of a URL or keyword/value connection string.
func requireTLS(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		query := u.Query()
		if weakSSLModes[query.Get("sslmode")] {
			query.Set("sslmode", "require")
		}
		u.RawQuery = query.Encode()
		return u.String(), nil
	}

	// Keyword/value form: the last occurrence of a key wins
	mode := ""
	for _, field := range strings.Fields(dsn) {
		if key, value, ok := strings.Cut(field, "="); ok && key == "sslmode" {
			mode = strings.Trim(value, "'")
		}
	}
	if weakSSLModes[mode] {
		return strings.TrimSpace(dsn) + " sslmode=require", nil
	}
	return dsn, nil
}
