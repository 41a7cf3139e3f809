package pagetext

import (
	"github.com/sirupsen/logrus"
)

// Config holds options for decoding pages
type Config struct {
	Logger          logrus.FieldLogger  // Receives format errors and anomalies (nil = logrus standard logger)
	NewSpatialIndex func() SpatialIndex // Spatial index factory (nil = quadtree)
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Logger:          logrus.StandardLogger(),
		NewSpatialIndex: func() SpatialIndex { return NewQuadTree(DefaultQuadCapacity) },
	}
}

// withDefaults fills unset fields from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	if c.NewSpatialIndex == nil {
		c.NewSpatialIndex = def.NewSpatialIndex
	}
	return c
}
