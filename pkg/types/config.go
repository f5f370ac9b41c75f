package types

import "errors"

// Config holds backend selection and parameters for opening a key-value
// engine.
type Config struct {
	Backend string      `json:"backend" yaml:"backend"`
	DataDir string      `json:"data_dir" yaml:"data_dir"`
	Redis   RedisConfig `json:"redis" yaml:"redis"`
	Mongo   MongoConfig `json:"mongo" yaml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	Database string `json:"database" yaml:"database"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRedisAddrEmpty = errors.New("redis backend requires an address")
	ErrMongoURIEmpty  = errors.New("mongo backend requires a URI")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendFile:   true,
	BackendRedis:  true,
	BackendMongo:  true,
}

// Backends returns the accepted backend names in display order.
func Backends() []string {
	return []string{BackendSQLite, BackendFile, BackendRedis, BackendMongo}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			return ErrRedisAddrEmpty
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return ErrMongoURIEmpty
		}
	}
	return nil
}
