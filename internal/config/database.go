package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Username string
	Password string
	Host     string
	Port     uint16
	DBName   string
	SSLMode  string

	// url overrides every other field when DATABASE_URL is set.
	url string
}

func requireEnv(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := os.LookupEnv(key)
		if !ok {
			return nil, fmt.Errorf("no %s env variable set", key)
		}
		values[key] = value
	}
	return values, nil
}

func NewDatabase() (*Database, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok && dbURL != "" {
		return &Database{url: dbURL}, nil
	}

	env, err := requireEnv("POSTGRES_USER", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB")
	if err != nil {
		return nil, fmt.Errorf("no DATABASE_URL set; %w", err)
	}

	password, ok, err := lookupSecret("POSTGRES_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set")
	}

	port, err := strconv.ParseUint(env["POSTGRES_PORT"], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("unable to convert port to int: %w", err)
	}

	config := &Database{
		Username: env["POSTGRES_USER"],
		Password: password,
		Host:     env["POSTGRES_HOST"],
		Port:     uint16(port),
		DBName:   env["POSTGRES_DB"],
		SSLMode:  lookupDefault("POSTGRES_SSLMODE", "disable"),
	}

	return config, nil
}

func (c Database) URL() string {
	if c.url != "" {
		return c.url
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func (c Database) PoolConfig() (*pgxpool.Config, error) {
	return pgxpool.ParseConfig(c.URL())
}
