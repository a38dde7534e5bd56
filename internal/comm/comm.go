// Package comm abstracts the process group of a distributed run.
//
// The external framework owns actual distributed-memory parallelism;
// this layer only needs rank identity for gating console output and a
// sum reduction for aggregating per-process memory figures. [Local] is
// the single-process group used in production; [World] simulates a
// multi-rank group in-process for tests.
package comm

// Communicator identifies a process within a group and provides the
// one reduction this layer uses.
type Communicator interface {
	Rank() int
	Size() int
	SumInt(v int64) int64
}

// Local is a single-process group: rank 0 of 1.
type Local struct{}

func (Local) Rank() int            { return 0 }
func (Local) Size() int            { return 1 }
func (Local) SumInt(v int64) int64 { return v }

// World simulates a group of n cooperating ranks within one process.
// Each rank gets its own view via At.
type World struct {
	size int
}

func NewWorld(size int) *World {
	if size < 1 {
		size = 1
	}
	return &World{size: size}
}

func (w *World) Size() int { return w.size }

// At returns the communicator as seen by the given rank.
func (w *World) At(rank int) Communicator {
	return &worldRank{world: w, rank: rank}
}

type worldRank struct {
	world *World
	rank  int
}

func (r *worldRank) Rank() int { return r.rank }
func (r *worldRank) Size() int { return r.world.size }

// SumInt mimics an allreduce over ranks holding identical values.
func (r *worldRank) SumInt(v int64) int64 {
	return v * int64(r.world.size)
}
