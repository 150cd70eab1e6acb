package webdemo

import "math"

// Waveform is the oscillator shape of sequencer voices.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

const (
	attackSeconds = 0.005
	voicePeak     = 0.5
	accentPeak    = 1.0
	envFloor      = 0.0001
)

// voice is one decaying note. Phase runs over [0, 1).
type voice struct {
	waveform Waveform
	phase    float64
	inc      float64
	peak     float64
	age      int
	decay    int
}

func (v *voice) done() bool { return v.age >= v.decay }

// next returns the voice's current sample and advances it.
func (v *voice) next(attack int) float64 {
	y := v.envelope(attack) * oscillator(v.waveform, v.phase, v.inc)
	v.phase += v.inc
	if v.phase >= 1 {
		v.phase--
	}
	v.age++
	return y
}

// envelope is an exponential attack to peak followed by an exponential
// decay to the floor.
func (v *voice) envelope(attack int) float64 {
	if v.age < attack {
		t := float64(v.age) / float64(attack)
		return envFloor * math.Pow(v.peak/envFloor, t)
	}
	if v.decay <= attack {
		return envFloor
	}
	t := float64(v.age-attack) / float64(v.decay-attack)
	return v.peak * math.Pow(envFloor/v.peak, t)
}

// oscillator evaluates w at phase. Saw and square edges are smoothed with
// a polynomial band-limited step so the distortion sees little aliasing
// from the source itself.
func oscillator(w Waveform, phase, inc float64) float64 {
	switch w {
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveSaw:
		return 2*phase - 1 - polyBLEP(phase, inc)
	case WaveSquare:
		y := 1.0
		if phase >= 0.5 {
			y = -1
		}
		half := phase + 0.5
		if half >= 1 {
			half--
		}
		return y + polyBLEP(phase, inc) - polyBLEP(half, inc)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// polyBLEP is the two-sample residual of a unit step at phase 0.
func polyBLEP(t, dt float64) float64 {
	switch {
	case dt <= 0:
		return 0
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}

// SetWaveform selects the oscillator for newly triggered notes: "sine",
// "triangle", "square", anything else is a saw.
func (e *Engine) SetWaveform(name string) {
	switch name {
	case "sine":
		e.waveform = WaveSine
	case "triangle":
		e.waveform = WaveTriangle
	case "square":
		e.waveform = WaveSquare
	default:
		e.waveform = WaveSaw
	}
}

// SetTransport sets the tempo in BPM (sixteenth-note steps) and the note
// decay in seconds.
func (e *Engine) SetTransport(tempoBPM, decaySec float64) {
	if tempoBPM > 0 {
		e.tempoBPM = tempoBPM
	}
	e.decaySec = max(decaySec, minDecaySeconds)
}

// SetRunning starts or stops the pattern. Starting rewinds to step 0.
func (e *Engine) SetRunning(running bool) {
	if running && !e.running {
		e.currentStep = 0
		e.samplesUntilNextStep = 0
	}
	e.running = running
}

// SetFollowPitch makes every triggered note move the split frequency to
// its own pitch, so harmonic mode tracks the bass line.
func (e *Engine) SetFollowPitch(on bool) { e.followPitch = on }

// SetSteps replaces the leading steps of the pattern.
func (e *Engine) SetSteps(steps []StepConfig) {
	for i := 0; i < stepCount && i < len(steps); i++ {
		cfg := steps[i]
		if cfg.FreqHz <= 0 {
			cfg.FreqHz = 110
		}
		e.steps[i] = cfg
	}
}

func (e *Engine) triggerCurrentStep() {
	step := e.steps[e.currentStep]
	if !step.Enabled || step.FreqHz <= 0 {
		return
	}
	if e.followPitch {
		// Known name; the surface clamps the value.
		_ = e.fx.Params().SetByName("freq", step.FreqHz)
	}
	if len(e.voices) >= maxVoices {
		copy(e.voices, e.voices[1:])
		e.voices = e.voices[:maxVoices-1]
	}
	peak := voicePeak
	if step.Accent {
		peak = accentPeak
	}
	e.voices = append(e.voices, voice{
		waveform: e.waveform,
		inc:      step.FreqHz / e.sampleRate,
		peak:     peak,
		decay:    max(int(e.decaySec*e.sampleRate), 1),
	})
}

func (e *Engine) nextSample() float64 {
	attack := max(int(attackSeconds*e.sampleRate), 1)
	sum := 0.0
	live := e.voices[:0]
	for i := range e.voices {
		v := &e.voices[i]
		if v.done() {
			continue
		}
		sum += v.next(attack)
		live = append(live, *v)
	}
	e.voices = live
	return sum
}

func (e *Engine) stepDurationSamples() float64 {
	return e.sampleRate * 60 / e.tempoBPM / 4
}

// defaultStepFreq walks C minor pentatonic up from C2.
func defaultStepFreq(i int) float64 {
	notes := [...]float64{65.41, 77.78, 87.31, 98, 116.54, 130.81, 155.56, 174.61}
	return notes[i%len(notes)]
}
