package disloc

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMu = 3e10
	testNu = 0.25
)

// vertical strike-slip fault under the origin, striking north
var verticalFault = FaultPatch{
	Depth: 5000, Length: 10000, Width: 5000,
	Strike: 0, Dip: 90, StrikeSlip: 1,
}

var obliqueFault = FaultPatch{
	Depth: 5000, Length: 10000, Width: 5000,
	Strike: 30, Dip: 60, StrikeSlip: 1, DipSlip: 0.5, Opening: 0.2,
}

func evaluate(t *testing.T, patches []FaultPatch, obs []ObservationPoint) *ResultSet {
	t.Helper()
	rs, err := Evaluate(patches, obs, testMu, testNu)
	require.NoError(t, err)
	require.Len(t, rs.Results, len(obs))
	require.Len(t, rs.Flags, len(obs))
	return rs
}

func assertClose(t *testing.T, expected, actual []float64, rel float64) {
	t.Helper()
	require.Len(t, actual, len(expected))
	scale := 0.0
	for _, v := range expected {
		scale = math.Max(scale, math.Abs(v))
	}
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], rel*scale, "component %d", i)
	}
}

func TestEvaluateVerticalStrikeSlip(t *testing.T) {
	rs := evaluate(t, []FaultPatch{verticalFault}, []ObservationPoint{
		{East: 0, North: 0, Up: 0},
		{East: 2000, North: 0, Up: 0},
		{East: 3000, North: 3000, Up: 0},
	})

	// above the trace the displacement vanishes by symmetry; only shear remains
	r := rs.Results[0]
	assert.Equal(t, []Status{0}, rs.Flags[0])
	assert.InDelta(t, 0, r.U[0], 1e-15)
	assert.InDelta(t, 0, r.U[1], 1e-15)
	assert.InDelta(t, 0, r.U[2], 1e-15)
	assert.InDelta(t, 1.8437270204429072e-06, r.D[1], 1e-18)
	assert.InDelta(t, 8.773916628916957e-06, r.D[3], 1e-18)
	assert.InDelta(t, 318529.3094807959, r.S[1], 1e-6)
	assert.Equal(t, r.S[1], r.S[3])

	// off the trace the motion is parallel to strike
	r = rs.Results[1]
	assert.InDelta(t, 0, r.U[0], 1e-15)
	assert.InDelta(t, 0.014947798028665416, r.U[1], 1e-15)
	assert.InDelta(t, 0, r.U[2], 1e-15)

	r = rs.Results[2]
	assert.Equal(t, []Status{0}, rs.Flags[2])
	assertClose(t, []float64{0.012714149440236357, 0.019972960258459495, 0.016509089582379743}, r.U[:], 1e-12)
	assertClose(t, []float64{
		3.3502336402055874e-06, 3.5035052904636988e-06, -1.977086596758726e-06,
		3.1333752555698076e-06, 9.582675373693958e-07, -4.4261381795183795e-06,
		1.9770865967587185e-06, 4.426138179518376e-06, -1.4361670591916602e-06,
	}, r.D[:], 1e-10)
	assertClose(t, []float64{
		287184.0419638349, 199106.4163810052, 0,
		199106.4163810052, 143666.07579366342, 0,
		0, 0, 0,
	}, r.S[:], 1e-9)
}

func TestEvaluateStrikeRotatesField(t *testing.T) {
	// turning the fault to strike east turns the field with it
	east := verticalFault
	east.Strike = 90

	north := evaluate(t, []FaultPatch{verticalFault}, []ObservationPoint{{East: 2000}})
	eastward := evaluate(t, []FaultPatch{east}, []ObservationPoint{{North: -2000}})
	assert.InDelta(t, north.Results[0].U[1], eastward.Results[0].U[0], 1e-15)
	assert.InDelta(t, -north.Results[0].U[0], eastward.Results[0].U[1], 1e-15)

	along := evaluate(t, []FaultPatch{verticalFault}, []ObservationPoint{{North: 2000}})
	assert.InDelta(t, 0.0035734371344208204, along.Results[0].U[0], 1e-15)
	assert.InDelta(t, 0, along.Results[0].U[1], 1e-15)
}

func TestEvaluateOblique(t *testing.T) {
	rs := evaluate(t, []FaultPatch{obliqueFault}, []ObservationPoint{{East: 3000, North: -2000, Up: -100}})
	assert.Equal(t, []Status{0}, rs.Flags[0])
	r := rs.Results[0]
	assertClose(t, []float64{0.04907391638526133, 0.00981522351137502, 0.1026476555647946}, r.U[:], 1e-12)
	assertClose(t, []float64{
		1.1540026171571867e-05, 5.456231424349964e-06, -5.6354929619348e-07,
		-3.1061934895120856e-06, 5.038201667135548e-06, -1.703417271155116e-05,
		-6.491551249318903e-07, 1.8053984316856303e-05, -5.5334903835605994e-06,
	}, r.D[:], 1e-10)
}

func TestEvaluateSingularEdge(t *testing.T) {
	// center of the upper edge of the vertical fault
	rs := evaluate(t, []FaultPatch{verticalFault}, []ObservationPoint{{Up: -5000}})
	assert.Equal(t, [][]int32{{100}}, rs.Codes())
	assert.Equal(t, Result{}, rs.Results[0])
}

func TestEvaluateAboveSurface(t *testing.T) {
	p := FaultPatch{
		East: 440.58095043254673, North: 3940.114839963042, Depth: 15,
		Length: 80, Width: 50, Strike: 50, Dip: 45,
		StrikeSlip: 0.01, DipSlip: 0.01,
	}
	rs := evaluate(t, []FaultPatch{p, p}, []ObservationPoint{
		{East: 500, North: 4000, Up: 10},
		{East: 600, North: 4100, Up: -5},
	})
	assert.Equal(t, [][]int32{{1, 1}, {0, 0}}, rs.Codes())
	assert.Equal(t, Result{}, rs.Results[0])
	assertClose(t, []float64{6.297978833767886e-05, -4.242886599227489e-05, -2.255977015633336e-05}, rs.Results[1].U[:], 1e-12)
}

func TestEvaluateUnphysicalPatch(t *testing.T) {
	p := verticalFault
	p.Length = 0
	rs := evaluate(t, []FaultPatch{p}, []ObservationPoint{{East: 3000, North: 3000}})
	assert.Equal(t, [][]int32{{10}}, rs.Codes())
	for _, v := range rs.Results[0].D {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}

	p = verticalFault
	p.Depth = -1
	rs = evaluate(t, []FaultPatch{p}, []ObservationPoint{{East: 3000, North: 3000, Up: 1}})
	assert.Equal(t, [][]int32{{11}}, rs.Codes())
}

func TestEvaluateWarnsOncePerPatch(t *testing.T) {
	bad := verticalFault
	bad.Width = -5000
	obs := []ObservationPoint{{East: 500, Up: 1}}
	for k := 1; k <= 20; k++ {
		obs = append(obs, ObservationPoint{East: float64(1000 * k), North: 3000})
	}

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.WarnLevel)
	rs, err := NewEvaluator(WithLogger(log), WithWorkers(4)).
		Evaluate(context.Background(), []FaultPatch{verticalFault, bad}, obs, ElasticConstants{Mu: testMu, Nu: testNu})
	require.NoError(t, err)

	sum := rs.Summary()
	assert.Equal(t, 21, sum.Unphysical)
	assert.Equal(t, 0, sum.Singular)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\n"), out)
	assert.Equal(t, 1, strings.Count(out, "unphysical fault patch"))
	assert.Equal(t, 1, strings.Count(out, "above the free surface"))
}

func TestEvaluateSingularSummaryWarning(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.WarnLevel)
	obs := []ObservationPoint{{Up: -5000}, {North: 5000, Up: -5000}, {East: 3000, North: 3000}}
	_, err := NewEvaluator(WithLogger(log)).
		Evaluate(context.Background(), []FaultPatch{verticalFault}, obs, ElasticConstants{Mu: testMu, Nu: testNu})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), buf.String())
	assert.Contains(t, buf.String(), `"pairs":2`)
}

func TestEvaluateSuperposition(t *testing.T) {
	obs := []ObservationPoint{
		{East: 3000, North: 3000},
		{East: -1500, North: 7000, Up: -200},
		{East: 12000, North: -4000, Up: -3000},
	}
	a := evaluate(t, []FaultPatch{verticalFault}, obs)
	b := evaluate(t, []FaultPatch{obliqueFault}, obs)
	ab := evaluate(t, []FaultPatch{verticalFault, obliqueFault}, obs)

	for i := range obs {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, a.Results[i].U[k]+b.Results[i].U[k], ab.Results[i].U[k], 1e-15)
		}
		for k := 0; k < 9; k++ {
			assert.InDelta(t, a.Results[i].D[k]+b.Results[i].D[k], ab.Results[i].D[k], 1e-18)
			assert.InDelta(t, a.Results[i].S[k]+b.Results[i].S[k], ab.Results[i].S[k], 1e-4)
		}
	}
}

func TestEvaluateSplitSlip(t *testing.T) {
	half := obliqueFault
	half.StrikeSlip /= 2
	half.DipSlip /= 2
	half.Opening /= 2

	obs := []ObservationPoint{{East: 3000, North: -2000, Up: -100}, {East: -7000, North: 1000}}
	whole := evaluate(t, []FaultPatch{obliqueFault}, obs)
	split := evaluate(t, []FaultPatch{half, half}, obs)
	for i := range obs {
		assertClose(t, whole.Results[i].U[:], split.Results[i].U[:], 1e-13)
		assertClose(t, whole.Results[i].D[:], split.Results[i].D[:], 1e-13)
		assertClose(t, whole.Results[i].S[:], split.Results[i].S[:], 1e-13)
	}
}

func TestEvaluateRotationKeepsDilatation(t *testing.T) {
	// rotating fault and station together about the vertical axis
	// leaves the trace of the gradient unchanged
	base := evaluate(t, []FaultPatch{obliqueFault}, []ObservationPoint{{East: 3000, North: -2000, Up: -100}})
	for _, turn := range []float64{40, 90, 215} {
		p := obliqueFault
		p.Strike += turn
		s, c := math.Sincos(turn * math.Pi / 180)
		// strike is clockwise from north, so the station turns clockwise too
		e, n := 3000*c-2000*s, -3000*s-2000*c
		rs := evaluate(t, []FaultPatch{p}, []ObservationPoint{{East: e, North: n, Up: -100}})
		assert.InDelta(t, base.Results[0].Dilatation(), rs.Results[0].Dilatation(), 1e-15, "turn %v", turn)
		assert.InDelta(t, base.Results[0].U[2], rs.Results[0].U[2], 1e-12, "turn %v", turn)
	}
}

func TestEvaluateWorkerCountIndependent(t *testing.T) {
	var obs []ObservationPoint
	for i := 0; i < 37; i++ {
		obs = append(obs, ObservationPoint{East: float64(i*700 - 12000), North: float64(i*300 - 5000), Up: -float64(i * 10)})
	}
	patches := []FaultPatch{verticalFault, obliqueFault}
	ec := ElasticConstants{Mu: testMu, Nu: testNu}

	serial, err := NewEvaluator(WithWorkers(1)).Evaluate(context.Background(), patches, obs, ec)
	require.NoError(t, err)
	for _, n := range []int{2, 5, 64} {
		rs, err := NewEvaluator(WithWorkers(n)).Evaluate(context.Background(), patches, obs, ec)
		require.NoError(t, err)
		assert.Equal(t, serial, rs, "workers %d", n)
	}
}

type stubSolver struct {
	status Status
}

func (s stubSolver) Solve(FaultPatch, [3]float64, float64) (LocalField, Status) {
	return LocalField{U: [3]float64{1, 0, 0}, D: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}, s.status
}

func TestEvaluateCodesAdd(t *testing.T) {
	e := NewEvaluator(WithSolver(stubSolver{status: Singular}))
	bad := FaultPatch{Length: -1, Width: 1}
	rs, err := e.Evaluate(context.Background(), []FaultPatch{bad, {Length: 1, Width: 1}}, []ObservationPoint{{Up: 1}, {Up: -1}}, ElasticConstants{Mu: 1, Nu: 0.25})
	require.NoError(t, err)
	assert.Equal(t, [][]int32{{111, 101}, {110, 100}}, rs.Codes())

	// the stub contributes regardless of status
	assert.Equal(t, [3]float64{0, 2, 0}, rs.Results[0].U)
	assert.Equal(t, 6.0, rs.Results[1].Dilatation())
}

func TestEvaluateStubRotation(t *testing.T) {
	e := NewEvaluator(WithSolver(stubSolver{}))
	rs, err := e.Evaluate(context.Background(), []FaultPatch{{Length: 1, Width: 1, Strike: 0}}, []ObservationPoint{{}}, ElasticConstants{Mu: 1, Nu: 0.25})
	require.NoError(t, err)
	// local x is north for a north-striking patch
	assert.Equal(t, [3]float64{0, 1, 0}, rs.Results[0].U)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate(nil, []ObservationPoint{{}}, testMu, testNu)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Evaluate([]FaultPatch{verticalFault}, nil, testMu, testNu)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Evaluate([]FaultPatch{verticalFault}, []ObservationPoint{{}}, testMu, 0.5)
	assert.ErrorIs(t, err, ErrElastic)
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEvaluator().Evaluate(ctx, []FaultPatch{verticalFault}, []ObservationPoint{{}}, ElasticConstants{Mu: testMu, Nu: testNu})
	assert.ErrorIs(t, err, context.Canceled)
}
