package trajectory

import "github.com/GoSim-25-26J-441/launch-search/internal/body"

// Point is a position in the orbital plane, in metres
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BodyTrack is the sequence of positions of one body during a traced launch
type BodyTrack struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Trace holds the approach phase of a launch: per-step body and rocket
// positions from the first step up to and including the landing step.
type Trace struct {
	LaunchTime  float64     `json:"launch_time"`
	LandingTime float64     `json:"landing_time"`
	Bodies      []BodyTrack `json:"bodies"`
	Rocket      []Point     `json:"rocket"`
}

func newTrace(launch, landing float64, bodies []body.Body, tracks [][]Point, rocket []Point, steps int) *Trace {
	tr := &Trace{
		LaunchTime:  launch,
		LandingTime: landing,
		Bodies:      make([]BodyTrack, len(bodies)),
		Rocket:      rocket[:steps:steps],
	}
	for i, b := range bodies {
		tr.Bodies[i] = BodyTrack{Name: b.Name, Points: tracks[i][:steps:steps]}
	}
	return tr
}

// Frames returns the number of recorded steps
func (tr *Trace) Frames() int {
	return len(tr.Rocket)
}

// Downsample keeps at most frames evenly spaced steps, always including the
// landing step. A non-positive frames value leaves the trace unchanged.
func (tr *Trace) Downsample(frames int) {
	n := len(tr.Rocket)
	if frames <= 0 || n <= frames {
		return
	}

	idx := make([]int, frames)
	if frames == 1 {
		idx[0] = n - 1
	} else {
		for i := range idx {
			idx[i] = (n - 1) * i / (frames - 1)
		}
	}

	pick := func(points []Point) []Point {
		out := make([]Point, len(idx))
		for i, j := range idx {
			out[i] = points[j]
		}
		return out
	}
	tr.Rocket = pick(tr.Rocket)
	for i := range tr.Bodies {
		tr.Bodies[i].Points = pick(tr.Bodies[i].Points)
	}
}
