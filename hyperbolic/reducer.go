package hyperbolic

import (
	"math"

	"github.com/notargets/govisc/offline"
	"github.com/notargets/govisc/utils"
	"github.com/notargets/govisc/vector"
)

// Reducer provides the two collective operations of a step: the global
// minimum reduction that synchronizes the admissible time step across all
// ranks, and the ghost exchanges that keep the one-ring halo of
// distributed vectors consistent with their owners. Implementations must
// be reentrant: a step performs several exchanges back to back.
type Reducer interface {
	MinReduce(x float64) float64
	// LogicalOr synchronizes a per-rank condition; the invariant domain
	// restart decision must be collective or the ensemble would deadlock
	// in subsequent barriers.
	LogicalOr(x bool) bool
	ExchangeMulti(v *vector.Multi)
	ExchangeScalar(x []float64)
}

// SerialComm is the single-rank reducer: every collective is the identity
// because there is no ghost region to fill.
type SerialComm struct{}

func (SerialComm) MinReduce(x float64) float64   { return x }
func (SerialComm) LogicalOr(x bool) bool         { return x }
func (SerialComm) ExchangeMulti(v *vector.Multi) {}
func (SerialComm) ExchangeScalar(x []float64)    {}

// ghostPacket carries the owned values requested by one neighbor rank.
type ghostPacket struct {
	From   int
	Values []float64
}

// Ensemble coordinates an in-process rank ensemble. Each rank runs in its
// own goroutine and obtains its Reducer through Comm. Ghost values travel
// through the MailBox channel exchange; the time step reduction uses a
// barrier protected shared slot per rank.
type Ensemble struct {
	NRanks  int
	barrier *utils.CyclicBarrier
	mb      *utils.MailBox[ghostPacket]
	minVals []float64
}

func NewEnsemble(nranks int) *Ensemble {
	return &Ensemble{
		NRanks:  nranks,
		barrier: utils.NewCyclicBarrier(nranks),
		mb:      utils.NewMailBox[ghostPacket](nranks),
		minVals: make([]float64, nranks),
	}
}

// Comm binds a rank's offline data to the ensemble.
func (e *Ensemble) Comm(d *offline.Data) Reducer {
	return &rankComm{ens: e, d: d}
}

type rankComm struct {
	ens *Ensemble
	d   *offline.Data
}

func (rc *rankComm) MinReduce(x float64) float64 {
	e := rc.ens
	e.minVals[rc.d.Rank] = x
	e.barrier.Await()
	res := math.Inf(1)
	for _, v := range e.minVals {
		res = math.Min(res, v)
	}
	e.barrier.Await()
	return res
}

func (rc *rankComm) LogicalOr(x bool) bool {
	e := rc.ens
	v := 0.
	if x {
		v = 1.
	}
	e.minVals[rc.d.Rank] = -v
	e.barrier.Await()
	any := false
	for _, w := range e.minVals {
		if w < 0 {
			any = true
		}
	}
	e.barrier.Await()
	return any
}

// exchange posts one packet per neighbor containing the owned entries the
// neighbor mirrors, then drains the packets addressed to this rank. gather
// serializes the send list, scatter places a received packet.
func (rc *rankComm) exchange(
	gather func(indices []int) []float64,
	scatter func(indices []int, values []float64),
) {
	var (
		e    = rc.ens
		rank = rc.d.Rank
	)
	for target, indices := range rc.d.SendIndices {
		e.mb.PostMessage(rank, target, ghostPacket{
			From:   rank,
			Values: gather(indices),
		})
	}
	e.mb.DeliverMyMessages(rank)
	e.barrier.Await()
	e.mb.ReceiveMyMessages(rank)
	for _, pkt := range e.mb.ReceiveMsgQs[rank].Cells() {
		scatter(rc.d.RecvIndices[pkt.From], pkt.Values)
	}
	e.mb.ClearMyMessages(rank)
	e.barrier.Await()
}

func (rc *rankComm) ExchangeMulti(v *vector.Multi) {
	rc.exchange(
		func(indices []int) []float64 {
			values := make([]float64, v.NComp*len(indices))
			for c := 0; c < v.NComp; c++ {
				comp := v.Comp(c)
				for n, i := range indices {
					values[c*len(indices)+n] = comp[i]
				}
			}
			return values
		},
		func(indices []int, values []float64) {
			for c := 0; c < v.NComp; c++ {
				comp := v.Comp(c)
				for n, i := range indices {
					comp[i] = values[c*len(indices)+n]
				}
			}
		})
}

func (rc *rankComm) ExchangeScalar(x []float64) {
	rc.exchange(
		func(indices []int) []float64 {
			values := make([]float64, len(indices))
			for n, i := range indices {
				values[n] = x[i]
			}
			return values
		},
		func(indices []int, values []float64) {
			for n, i := range indices {
				x[i] = values[n]
			}
		})
}
