package ambient

import (
	"image/color"
	"math"
	"time"

	"github.com/san-kum/backdrop/internal/dynamo"
)

// Pulse is a short-lived ring spawned by a press. Position is in
// percentage-of-viewport space.
type Pulse struct {
	ID       uint64
	Pos      dynamo.Vec2
	Color    color.NRGBA
	Created  time.Time
	Lifetime time.Duration
}

type keyframe struct {
	at, opacity, scale float64
}

var pulseFrames = []keyframe{
	{0, 0.7, 0.5},
	{0.6, 0.5, 1.1},
	{1, 0, 1.7},
}

var pulseEase = cubicBezier{0.4, 0, 0.2, 1}

// Frame returns the pulse's scale and opacity at now. The animation is a pure
// function of elapsed time.
func (p Pulse) Frame(now time.Time) (scale, opacity float64) {
	if p.Lifetime <= 0 {
		return pulseFrames[len(pulseFrames)-1].scale, 0
	}
	t := float64(now.Sub(p.Created)) / float64(p.Lifetime)
	if t <= 0 {
		return pulseFrames[0].scale, pulseFrames[0].opacity
	}
	if t >= 1 {
		last := pulseFrames[len(pulseFrames)-1]
		return last.scale, last.opacity
	}
	for i := 1; i < len(pulseFrames); i++ {
		a, b := pulseFrames[i-1], pulseFrames[i]
		if t > b.at {
			continue
		}
		local := pulseEase.At((t - a.at) / (b.at - a.at))
		return lerp(a.scale, b.scale, local), lerp(a.opacity, b.opacity, local)
	}
	return pulseFrames[len(pulseFrames)-1].scale, 0
}

// cubicBezier is a CSS timing function through (0,0), (x1,y1), (x2,y2), (1,1).
type cubicBezier struct {
	x1, y1, x2, y2 float64
}

func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// At maps input progress x to eased progress.
func (c cubicBezier) At(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	t := x
	for i := 0; i < 8; i++ {
		d := bezier(t, c.x1, c.x2) - x
		if math.Abs(d) < 1e-7 {
			return bezier(t, c.y1, c.y2)
		}
		s := bezierSlope(t, c.x1, c.x2)
		if math.Abs(s) < 1e-6 {
			break
		}
		t -= d / s
	}
	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 40; i++ {
		v := bezier(t, c.x1, c.x2)
		if math.Abs(v-x) < 1e-7 {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezier(t, c.y1, c.y2)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
