// Package sim simulates a small differential-drive robot: battery decay,
// randomized infrared/touch/inertial readings, wheel drift and a
// rule-based decision picker. It exists to feed the recorder with
// realistic snapshots when no hardware is attached.
//
// All randomness comes from the injected rand source, so a seeded
// simulator is fully deterministic.
package sim

import (
	"math"
	"math/rand"

	"ebb/internal/store"
)

// Robot holds the simulated sensor and actuator state.
type Robot struct {
	rng *rand.Rand

	battery    float64
	ir         [4]float64
	touch      float64
	gyro       store.Vector
	accel      store.Vector
	leftWheel  float64
	rightWheel float64
	headServo  float64

	// x, y, heading
	pos [3]float64
}

// New creates a robot at rest with a full battery.
func New(rng *rand.Rand) *Robot {
	return &Robot{
		rng:     rng,
		battery: 100,
		accel:   store.Vector{0, 0, 9.8},
	}
}

// Step advances the simulation by one tick.
func (r *Robot) Step() {
	r.battery = math.Max(0, r.battery-0.01)

	for i := range r.ir {
		r.ir[i] = r.uniform(0, 2)
	}
	r.touch = float64(r.rng.Intn(2))

	r.gyro = store.Vector{r.uniform(-10, 10), r.uniform(-10, 10), r.uniform(-50, 50)}
	r.accel = store.Vector{r.uniform(-2, 2), r.uniform(-2, 2), 9.8 + r.uniform(-0.5, 0.5)}

	r.leftWheel += r.uniform(-5, 5)
	r.rightWheel += r.uniform(-5, 5)
	r.headServo = r.uniform(-90, 90)

	// Differential-drive kinematics, wheelbase 0.2m, 100ms tick.
	leftSpeed := r.leftWheel * 0.01
	rightSpeed := r.rightWheel * 0.01
	linear := (leftSpeed + rightSpeed) / 2
	angular := (rightSpeed - leftSpeed) / 0.2

	r.pos[0] += linear * math.Cos(r.pos[2]) * 0.1
	r.pos[1] += linear * math.Sin(r.pos[2]) * 0.1
	r.pos[2] += angular * 0.1
}

// Sensors returns the current sensor readings keyed by sensor name.
func (r *Robot) Sensors() map[string]store.SensorValue {
	return map[string]store.SensorValue{
		"battery":        store.Scalar(r.battery),
		"ir_sensor_1":    store.Scalar(r.ir[0]),
		"ir_sensor_2":    store.Scalar(r.ir[1]),
		"ir_sensor_3":    store.Scalar(r.ir[2]),
		"ir_sensor_4":    store.Scalar(r.ir[3]),
		"touch_sensor_1": store.Scalar(r.touch),
		"gyro":           r.gyro,
		"accelerometer":  r.accel,
	}
}

// Actuators returns the current actuator positions keyed by name.
func (r *Robot) Actuators() map[string]float64 {
	return map[string]float64{
		"left_wheel":  r.leftWheel,
		"right_wheel": r.rightWheel,
		"head_servo":  r.headServo,
	}
}

// routineDecisions are picked at random when no sensor rule fires.
var routineDecisions = []store.Decision{
	{Code: "0001", Reason: "Moving forward"},
	{Code: "0002", Reason: "Turning left to avoid obstacle"},
	{Code: "0003", Reason: "Stopping due to obstacle detected"},
	{Code: "0004", Reason: "Backing up"},
	{Code: "0005", Reason: "Turning right"},
}

// Decide picks the control decision for the current readings: stop when
// any infrared range is critically short, back up after a touch (bumper)
// trigger, otherwise a routine decision.
func (r *Robot) Decide() store.Decision {
	minIR := r.ir[0]
	for _, v := range r.ir[1:] {
		minIR = math.Min(minIR, v)
	}
	if minIR < 0.3 {
		return store.Decision{Code: "0003", Reason: "Stopping due to obstacle detected"}
	}
	if r.touch > 0 {
		return store.Decision{Code: "0004", Reason: "Backing up after collision"}
	}
	return routineDecisions[r.rng.Intn(len(routineDecisions))]
}

// Sample advances the simulation one step and returns a complete
// snapshot. Implements sampler.Source.
func (r *Robot) Sample() (map[string]store.SensorValue, map[string]float64, store.Decision) {
	r.Step()
	return r.Sensors(), r.Actuators(), r.Decide()
}

// Position returns the integrated pose (x, y, heading).
func (r *Robot) Position() (x, y, heading float64) {
	return r.pos[0], r.pos[1], r.pos[2]
}

func (r *Robot) uniform(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}
