package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/issuetracker/internal/flagx"
	"github.com/dmitrijs2005/issuetracker/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Duration fields
// accept either a string such as "24h" or integer nanoseconds.
type FileConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	LogBackend            string         `json:"log_backend" yaml:"log_backend"`
	ReadTimeout           timex.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout          timex.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// decodeFile unmarshals data as YAML for .yaml/.yml paths and JSON otherwise.
func decodeFile(path string, data []byte) (*FileConfig, error) {
	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// parseFile overlays values from the file named by -c/-config. Keys missing
// from the file leave the current values alone. An unreadable or invalid
// file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogBackend, c.LogBackend)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ReadTimeout.Duration != 0 {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout.Duration != 0 {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
