package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/strum_sentinel/internal/accel"
	"github.com/relabs-tech/strum_sentinel/internal/capture"
)

// constSampler always returns the same sample; the Sentinel's own
// collaborators decide what happens with it.
type constSampler struct {
	s accel.Sample
}

func (c constSampler) Next() (accel.Sample, error) { return c.s, nil }

// scriptedTrigger fires according to a fixed script, then stops firing.
type scriptedTrigger struct {
	fires []bool
	err   error
	i     int
}

func (t *scriptedTrigger) Check(accel.Sampler) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if t.i >= len(t.fires) {
		return false, nil
	}
	f := t.fires[t.i]
	t.i++
	return f, nil
}

// alwaysFire is a trigger that fires on every check.
type alwaysFire struct{}

func (alwaysFire) Check(accel.Sampler) (bool, error) { return true, nil }

// stubEngine records learn calls and plays back scripted similarities.
type stubEngine struct {
	learnCalls   int
	learnErr     error
	similarities []int
	detectCalls  int
	detectErr    error
}

func (e *stubEngine) Init() error { return nil }

func (e *stubEngine) Learn([]float64) error {
	e.learnCalls++
	return e.learnErr
}

func (e *stubEngine) Detect([]float64) (int, error) {
	if e.detectErr != nil {
		return 0, e.detectErr
	}
	sim := e.similarities[e.detectCalls%len(e.similarities)]
	e.detectCalls++
	return sim, nil
}

// recordingIndicator counts indications.
type recordingIndicator struct {
	learned  int
	complete int
	anomaly  int
	nominal  int
}

func (r *recordingIndicator) Learned()          { r.learned++ }
func (r *recordingIndicator) LearningComplete() { r.complete++ }
func (r *recordingIndicator) Anomaly()          { r.anomaly++ }
func (r *recordingIndicator) Nominal()          { r.nominal++ }

func newTestSentinel(det Trigger, eng *stubEngine, ind *recordingIndicator) *Sentinel {
	return &Sentinel{
		Src:       constSampler{accel.Sample{X: 0.2, Y: 0.2, Z: 0.2}},
		Det:       det,
		Buf:       capture.NewBuffer(4),
		Engine:    eng,
		Indicator: ind,
		Quota:     5,
		Threshold: 90,
	}
}

func TestSentinelLearningProgression(t *testing.T) {
	eng := &stubEngine{similarities: []int{95}}
	ind := &recordingIndicator{}
	s := newTestSentinel(alwaysFire{}, eng, ind)

	var pcts []int
	var dones []bool
	s.OnProgress = func(p Progress) {
		pcts = append(pcts, p.Pct)
		dones = append(dones, p.Done)
		assert.Equal(t, 5, p.Quota)
	}

	for i := 0; i < 5; i++ {
		dispatched, err := s.Step()
		require.NoError(t, err)
		assert.True(t, dispatched)
	}

	assert.Equal(t, []int{0, 20, 40, 60, 80}, pcts)
	assert.Equal(t, []bool{false, false, false, false, true}, dones)
	assert.Equal(t, 5, s.Learned())
	assert.True(t, s.Classifying())
	assert.Equal(t, 5, eng.learnCalls)
	assert.Equal(t, 5, ind.learned)
	assert.Equal(t, 1, ind.complete, "completion indicated exactly once")
}

func TestSentinelClassifiesAfterQuota(t *testing.T) {
	// 89 is below the threshold of 90, 90 is not.
	eng := &stubEngine{similarities: []int{89, 90}}
	ind := &recordingIndicator{}
	s := newTestSentinel(alwaysFire{}, eng, ind)

	var verdicts []Verdict
	s.OnVerdict = func(v Verdict) { verdicts = append(verdicts, v) }

	for i := 0; i < 7; i++ {
		_, err := s.Step()
		require.NoError(t, err)
	}

	assert.Equal(t, 5, eng.learnCalls)
	assert.Equal(t, 2, eng.detectCalls)
	require.Len(t, verdicts, 2)
	assert.Equal(t, 89, verdicts[0].Similarity)
	assert.True(t, verdicts[0].Anomaly)
	assert.Equal(t, 90, verdicts[1].Similarity)
	assert.False(t, verdicts[1].Anomaly)
	assert.Equal(t, 1, ind.anomaly)
	assert.Equal(t, 1, ind.nominal)

	// The learned counter stays at the quota through classification.
	assert.Equal(t, 5, s.Learned())
}

func TestSentinelNoFireNoDispatch(t *testing.T) {
	eng := &stubEngine{}
	ind := &recordingIndicator{}
	s := newTestSentinel(&scriptedTrigger{fires: []bool{false, false, true}}, eng, ind)

	dispatched, err := s.Step()
	require.NoError(t, err)
	assert.False(t, dispatched)

	dispatched, err = s.Step()
	require.NoError(t, err)
	assert.False(t, dispatched)
	assert.Zero(t, eng.learnCalls)

	dispatched, err = s.Step()
	require.NoError(t, err)
	assert.True(t, dispatched)
	assert.Equal(t, 1, eng.learnCalls)
}

func TestSentinelPropagatesTriggerError(t *testing.T) {
	s := newTestSentinel(&scriptedTrigger{err: errors.New("bus wedged")}, &stubEngine{}, &recordingIndicator{})

	_, err := s.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus wedged")
}

func TestSentinelPropagatesLearnError(t *testing.T) {
	eng := &stubEngine{learnErr: errors.New("engine offline")}
	s := newTestSentinel(alwaysFire{}, eng, &recordingIndicator{})

	_, err := s.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine learn")
	assert.Zero(t, s.Learned(), "a failed learn is not counted")
}

func TestSentinelPropagatesDetectError(t *testing.T) {
	eng := &stubEngine{similarities: []int{95}}
	ind := &recordingIndicator{}
	s := newTestSentinel(alwaysFire{}, eng, ind)

	for i := 0; i < 5; i++ {
		_, err := s.Step()
		require.NoError(t, err)
	}

	eng.detectErr = errors.New("engine offline")
	_, err := s.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine detect")
}
