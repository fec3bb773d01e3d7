package ring

import (
	"errors"

	"go.miragespace.co/hashring/spec/ring"

	"go.uber.org/zap"
)

type Config struct {
	Logger *zap.Logger
	// Hasher positions virtual nodes and keys on the ring.
	// Defaults to ring.XXH3Hasher.
	Hasher ring.Hasher
	// VirtualNodes is the number of ring entries per unit of node
	// weight. Defaults to ring.DefaultVirtualNodes.
	VirtualNodes int
	// LoadFactor is (1 + epsilon) of the bounded-load extension.
	// Defaults to ring.DefaultLoadFactor.
	LoadFactor float64
	// OnFallback, when set, is invoked whenever AssignKey finds every
	// candidate at capacity and assigns to the natural owner anyway.
	// The fallback is always logged and counted regardless.
	OnFallback func(key []byte, node string)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil Config")
	}
	if c.Logger == nil {
		return errors.New("nil Logger")
	}
	if c.VirtualNodes < 0 {
		return errors.New("invalid VirtualNodes, must be positive")
	}
	if c.LoadFactor != 0 && c.LoadFactor <= 1 {
		return errors.New("invalid LoadFactor, must be greater than 1")
	}
	return nil
}

func (c *Config) withDefaults() Config {
	conf := *c
	if conf.Hasher == nil {
		conf.Hasher = ring.XXH3Hasher{}
	}
	if conf.VirtualNodes == 0 {
		conf.VirtualNodes = ring.DefaultVirtualNodes
	}
	if conf.LoadFactor == 0 {
		conf.LoadFactor = ring.DefaultLoadFactor
	}
	return conf
}
