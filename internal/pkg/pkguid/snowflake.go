package pkguid

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// epochMillis is 2025-12-01T00:00:00+07:00.
const epochMillis = 1764522000000

var setEpoch sync.Once

// Snowflake issues time-ordered int64 IDs, used for quality alert events.
type Snowflake struct {
	node *snowflake.Node
	id   int64
}

// NewSnowflake builds a generator for nodeID in [0, 1023]. A negative nodeID
// picks a random node, which is enough for a single replica.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	setEpoch.Do(func() { snowflake.Epoch = epochMillis })

	if nodeID < 0 {
		n, err := rand.Int(rand.Reader, big.NewInt(1<<snowflake.NodeBits))
		if err != nil {
			return nil, fmt.Errorf("pick snowflake node: %w", err)
		}
		nodeID = n.Int64()
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}

	return &Snowflake{node: node, id: nodeID}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// Node reports the node ID baked into every generated value.
func (s *Snowflake) Node() int64 {
	return s.id
}
