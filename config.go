package stream

import (
	"math"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures a Stream. The zero value gives the default behaviour:
// 8 KiB chunks, line iteration, non-exact reads and the default node pool.
type Config struct {
	// ChunkSize is the size of underlying reads and the write buffer
	// threshold. 0 selects DefaultChunkSize, a negative value (Unbuffered)
	// selects 1.
	ChunkSize int

	// BlockIter selects what Next yields: 0 or 1 (IterLines) iterates over
	// lines, a negative value iterates over DefaultChunkSize blocks, anything
	// else over blocks of that size.
	BlockIter int

	// ReadExact makes ReadBlock loop until it has the requested size or
	// reaches EOF.
	ReadExact bool

	// CloseOnFinalize closes the stream when it is garbage collected.
	CloseOnFinalize bool

	// Pool provides chain nodes. Defaults to DefaultPool.
	Pool NodePool

	// PoolKey picks the shard when Pool is a Sharder. Defaults to the
	// endpoint's name, or a per-stream sequence number.
	PoolKey string

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (c Config) chunkSize() int {
	switch {
	case c.ChunkSize == 0:
		return DefaultChunkSize
	case c.ChunkSize < 0:
		return 1
	default:
		return c.ChunkSize
	}
}

func (c Config) blockIter() int {
	switch {
	case c.BlockIter == 0:
		return IterLines
	case c.BlockIter < 0:
		return DefaultChunkSize
	default:
		return c.BlockIter
	}
}

func (c Config) pool() NodePool {
	if c.Pool == nil {
		return DefaultPool
	}
	return c.Pool
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// PoolKind names a NodePool implementation.
type PoolKind string

const (
	PoolChannel PoolKind = "channel"
	PoolPuddle  PoolKind = "puddle"
	PoolSharded PoolKind = "sharded"
)

// PoolConfig selects and sizes a node pool.
type PoolConfig struct {
	Kind   PoolKind
	Cap    int // idle nodes kept, per shard for the sharded pool
	Shards int
}

// NewPoolFromConfig builds the node pool described by cfg. Unset fields use
// the package defaults.
func NewPoolFromConfig(cfg PoolConfig) (NodePool, error) {
	capacity := cfg.Cap
	if capacity <= 0 {
		capacity = DefaultPoolCap
	}

	switch cfg.Kind {
	case "", PoolChannel:
		return NewChannelPool(capacity), nil
	case PoolPuddle:
		pool, err := NewPuddlePool(int32(min(capacity, math.MaxInt32)))
		if err != nil {
			return nil, err
		}
		return pool, nil
	case PoolSharded:
		shards := cfg.Shards
		if shards <= 0 {
			shards = DefaultPoolShards
		}
		return NewShardedPool(shards, capacity), nil
	default:
		return nil, errors.Newf("stream: unknown pool kind %q", cfg.Kind)
	}
}

// EnvConfig is the environment representation of a stream setup.
type EnvConfig struct {
	ChunkSize       int           `env:"STREAM_CHUNK_SIZE"`
	BlockIter       int           `env:"STREAM_BLOCK_ITER"`
	ReadExact       bool          `env:"STREAM_READ_EXACT"`
	CloseOnFinalize bool          `env:"STREAM_CLOSE_ON_FINALIZE"`
	PoolKind        PoolKind      `env:"STREAM_POOL_KIND" envDefault:"channel"`
	PoolCap         int           `env:"STREAM_POOL_CAP" envDefault:"1024"`
	PoolShards      int           `env:"STREAM_POOL_SHARDS" envDefault:"8"`
	LogLevel        zapcore.Level `env:"STREAM_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv reads an EnvConfig from the process environment.
func ParseEnv() (EnvConfig, error) {
	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}
	return e, nil
}

// PoolConfig returns the pool part of the environment.
func (e EnvConfig) PoolConfig() PoolConfig {
	return PoolConfig{Kind: e.PoolKind, Cap: e.PoolCap, Shards: e.PoolShards}
}

// Config builds a stream Config around the given pool and logger.
func (e EnvConfig) Config(pool NodePool, logger *zap.Logger) Config {
	return Config{
		ChunkSize:       e.ChunkSize,
		BlockIter:       e.BlockIter,
		ReadExact:       e.ReadExact,
		CloseOnFinalize: e.CloseOnFinalize,
		Pool:            pool,
		Logger:          logger,
	}
}

// NewLogger builds a production zap logger at the configured level.
func (e EnvConfig) NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(e.LogLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
