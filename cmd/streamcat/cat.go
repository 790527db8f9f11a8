package main

import (
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pior/stream"
	"github.com/pior/stream/promexporter"
)

const (
	modeLine  = "line"
	modeBlock = "block"
	modeSlurp = "slurp"
)

func runCat(cmd *cobra.Command, args []string) error {
	env, err := stream.ParseEnv()
	if err != nil {
		return err
	}

	logger, err := env.NewLogger()
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	defer func() { _ = logger.Sync() }()

	pool, err := stream.NewPoolFromConfig(env.PoolConfig())
	if err != nil {
		return err
	}

	config := env.Config(pool, logger)
	if catArgs.chunkSize != 0 {
		config.ChunkSize = catArgs.chunkSize
	}
	switch catArgs.mode {
	case modeLine:
		config.BlockIter = stream.IterLines
		config.ReadExact = false
	case modeBlock:
		config.BlockIter = -1
		if catArgs.blockSize > 1 {
			config.BlockIter = catArgs.blockSize
		}
		config.ReadExact = config.ReadExact || catArgs.exact
	case modeSlurp:
	default:
		return errors.Newf("unknown mode %q", catArgs.mode)
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	in, closeSource, err := openSource(cmd.Context(), source, config, logger)
	if err != nil {
		return err
	}
	out := stream.New(os.Stdout, stream.Config{
		ChunkSize: config.ChunkSize,
		Pool:      pool,
		Logger:    logger,
	})

	n, copyErr := copyStream(out, in, catArgs.mode)
	flushErr := out.Flush()
	closeErr := closeSource()

	logger.Debug("copy done",
		zap.String("source", source),
		zap.String("mode", catArgs.mode),
		zap.Int64("bytes", n),
		zap.Error(copyErr),
	)

	if catArgs.metrics {
		exporter := promexporter.NewExporter()
		exporter.Collector().AddPool(string(env.PoolKind), pool)
		exporter.Collector().AddStream("in", in)
		exporter.Collector().AddStream("out", out)
		if err := exporter.WriteText(os.Stderr); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}

	return errors.CombineErrors(copyErr, errors.CombineErrors(flushErr, closeErr))
}

// openSource returns the input stream and a function releasing everything
// behind it.
func openSource(ctx context.Context, source string, config stream.Config, logger *zap.Logger) (*stream.Stream, func() error, error) {
	if source == "-" {
		in := stream.New(os.Stdin, config)
		return in, func() error { return nil }, nil
	}

	if addr, ok := strings.CutPrefix(source, "tcp://"); ok {
		dialer := &stream.Dialer{
			NetDialer:         &net.Dialer{Timeout: 10 * time.Second},
			Config:            config,
			NewCircuitBreaker: stream.NewCircuitBreakerConfig(1, 0, 30*time.Second, logger),
			Logger:            logger,
		}
		conn, err := dialer.Dial(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, err
		}
		conn.SetTimeout(catArgs.timeout)

		in := conn.Reader()
		return in, func() error {
			return errors.CombineErrors(in.Close(), conn.Close())
		}, nil
	}

	fs, err := stream.Open(source, config)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened file",
		zap.String("resource", fs.Resource()),
		zap.Int64("length", fs.Length()),
		zap.Time("last_modified", fs.LastModified()),
	)
	return fs.Stream, fs.Close, nil
}

// copyStream writes everything read from in to out. Lines are flushed one
// by one when out is a terminal.
func copyStream(out, in *stream.Stream, mode string) (int64, error) {
	if mode == modeSlurp {
		data, err := in.ReadBlock(-1)
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		n, err := out.Write(data)
		return int64(n), err
	}

	tty, _ := out.IsTerminal()
	lineFlush := mode == modeLine && tty

	var total int64
	for block, err := range in.Blocks() {
		if err != nil {
			return total, err
		}
		n, err := out.Write(block)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if lineFlush {
			if err := out.Flush(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}
