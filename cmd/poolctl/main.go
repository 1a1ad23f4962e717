// Command poolctl opens an internal/mux Pool against a list of cache
// server addresses, submits a scripted sequence of GET/SET operations,
// and prints each completion as it arrives. It is a thin demonstration
// of the multiplexer core, not a replacement for pkg/client's richer
// Redis-compatible API.
package main

import (
	"flag"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cachemir/cachemir/internal/mux"
	"github.com/cachemir/cachemir/internal/op"
	"github.com/cachemir/cachemir/pkg/config"
	"github.com/cachemir/cachemir/pkg/hash"
	"github.com/cachemir/cachemir/pkg/protocol"
)

func main() {
	var nodesFlag string
	var optimizeGets bool
	var configPath string
	flag.StringVar(&nodesFlag, "nodes", "localhost:8080", "comma-separated cache server addresses (ignored if -config is set)")
	flag.BoolVar(&optimizeGets, "optimize-gets", true, "coalesce consecutive GETs per node (ignored if -config is set)")
	flag.StringVar(&configPath, "config", "", "optional YAML file with pool.* settings, loaded via viper")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	var cfg *config.PoolConfig
	if configPath != "" {
		cfg, err = config.LoadPoolConfigFromViper(configPath)
		if err != nil {
			log.Fatalw("failed to load pool config", "path", configPath, "error", err)
		}
	} else {
		cfg = config.DefaultPoolConfig()
		cfg.Nodes = strings.Split(nodesFlag, ",")
		cfg.OptimizeGets = optimizeGets
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid pool config", "error", err)
	}
	addrs := cfg.Nodes

	pool, err := mux.NewPool(cfg, nil, log)
	if err != nil {
		log.Fatalw("failed to construct pool", "error", err)
	}
	defer pool.Shutdown()

	go func() {
		if err := pool.Run(); err != nil {
			log.Errorw("pool loop exited", "error", err)
		}
	}()

	ring := hash.New(hash.DefaultVirtualNodes)
	for _, a := range addrs {
		ring.AddNode(a)
	}
	indexOf := func(key string) int {
		target := ring.GetNode(key)
		for i, a := range addrs {
			if a == target {
				return i
			}
		}
		return 0
	}

	log.Infow("pool ready", "status", pool.String())

	keys := []string{"alpha", "beta", "gamma"}

	for _, key := range keys {
		setDone := make(chan struct{})
		setOp := op.NewCommandOp(&protocol.Command{Type: protocol.CmdSet, Key: key, Args: []string{"value-" + key}}, setDone)
		if err := pool.AddOperation(indexOf(key), setOp); err != nil {
			log.Errorw("submit SET failed", "key", key, "error", err)
			continue
		}
		waitAndLog(log, "SET", key, setOp, setDone)
	}

	var getOps []*op.GetOperation
	var getDones []chan struct{}
	for _, key := range keys {
		getDone := make(chan struct{})
		getOp := op.NewGetOperation(key, getDone)
		if err := pool.AddOperation(indexOf(key), getOp); err != nil {
			log.Errorw("submit GET failed", "key", key, "error", err)
			continue
		}
		getOps = append(getOps, getOp)
		getDones = append(getDones, getDone)
	}
	for i, getOp := range getOps {
		waitAndLog(log, "GET", keys[i], getOp.CommandOp, getDones[i])
	}

	time.Sleep(50 * time.Millisecond)
}

func waitAndLog(log *zap.SugaredLogger, verb, key string, c *op.CommandOp, done <-chan struct{}) {
	<-done
	resp, err := c.Result()
	if err != nil {
		log.Warnw("operation failed", "op", verb, "key", key, "error", err)
		return
	}
	log.Infow("operation complete", "op", verb, "key", key, "response", resp)
}
