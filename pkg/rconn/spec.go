// Package rconn implements the Connection component: it owns one
// socket pair and the lazy reply sequence parsed from it, mediates
// request/reply correlation in normal mode, and demultiplexes pub/sub
// frames in subscriber mode.
package rconn

import (
	"fmt"
	"time"

	"github.com/lattice-db/redisgo/pkg/ioiface"
)

// Spec is the host/port pair plus dial options a Connection is built
// from.
type Spec struct {
	Host string
	Port uint16

	// DialTimeout bounds Dial; zero means no timeout.
	DialTimeout time.Duration

	// Engine selects the I/O realization. Nil defaults to a SyncIO
	// built from DialTimeout.
	Engine ioiface.Engine
}

func (s Spec) String() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s Spec) engine() ioiface.Engine {
	if s.Engine != nil {
		return s.Engine
	}
	return ioiface.NewSyncIO(s.DialTimeout)
}
