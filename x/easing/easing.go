// Package easing implements the 41 Robert Penner-style interpolation curves
// Transition controls animate with, each normalized to f: [0,1] -> [0,1].
// Grounded on the teacher's x/ramp linear step/tick shape, generalized from
// a single linear ramp to the full named-curve family
// original_source/control/torctransitioncontrol.cpp exposes.
package easing

import (
	"math"

	"torc/types"
)

// Func is a normalized easing function: f(0)=0, f(1)=1 for every curve here
// except the bounce/elastic/back families, which intentionally overshoot.
type Func func(t float64) float64

const halfPi = math.Pi / 2

func linear(t float64) float64 { return t }

func inQuad(t float64) float64  { return t * t }
func outQuad(t float64) float64 { return t * (2 - t) }

func inCubic(t float64) float64  { return t * t * t }
func outCubic(t float64) float64 { u := t - 1; return u*u*u + 1 }

func inQuart(t float64) float64  { return t * t * t * t }
func outQuart(t float64) float64 { u := t - 1; return 1 - u*u*u*u }

func inQuint(t float64) float64  { return t * t * t * t * t }
func outQuint(t float64) float64 { u := t - 1; return u*u*u*u*u + 1 }

func inSine(t float64) float64  { return 1 - math.Cos(t*halfPi) }
func outSine(t float64) float64 { return math.Sin(t * halfPi) }

func inExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}
func outExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func inCirc(t float64) float64  { return 1 - math.Sqrt(1-t*t) }
func outCirc(t float64) float64 { u := t - 1; return math.Sqrt(1 - u*u) }

const elasticPeriod = 0.3

func inElastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	u := t - 1
	return -math.Pow(2, 10*u) * math.Sin((u-elasticPeriod/4)*(2*math.Pi)/elasticPeriod)
}
func outElastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	return math.Pow(2, -10*t)*math.Sin((t-elasticPeriod/4)*(2*math.Pi)/elasticPeriod) + 1
}

const backOvershoot = 1.70158

func inBack(t float64) float64 {
	return t * t * ((backOvershoot+1)*t - backOvershoot)
}
func outBack(t float64) float64 {
	u := t - 1
	return u*u*((backOvershoot+1)*u+backOvershoot) + 1
}

func outBounce(t float64) float64 {
	switch {
	case t < 1/2.75:
		return 7.5625 * t * t
	case t < 2/2.75:
		u := t - 1.5/2.75
		return 7.5625*u*u + 0.75
	case t < 2.5/2.75:
		u := t - 2.25/2.75
		return 7.5625*u*u + 0.9375
	default:
		u := t - 2.625/2.75
		return 7.5625*u*u + 0.984375
	}
}
func inBounce(t float64) float64 { return 1 - outBounce(1-t) }

func inOut(in, out Func) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return in(t*2) / 2
		}
		return out(t*2-1)/2 + 0.5
	}
}

func outIn(in, out Func) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return out(t*2) / 2
		}
		return in(t*2-1)/2 + 0.5
	}
}

func inOutBounce(t float64) float64 {
	if t < 0.5 {
		return inBounce(t*2) / 2
	}
	return outBounce(t*2-1)/2 + 0.5
}
func outInBounce(t float64) float64 {
	if t < 0.5 {
		return outBounce(t*2) / 2
	}
	return inBounce(t*2-1)/2 + 0.5
}

func inOutElastic(t float64) float64 {
	if t < 0.5 {
		return inElastic(t*2) / 2
	}
	return outElastic(t*2-1)/2 + 0.5
}
func outInElastic(t float64) float64 {
	if t < 0.5 {
		return outElastic(t*2) / 2
	}
	return inElastic(t*2-1)/2 + 0.5
}

var table = map[types.EasingCurve]Func{
	types.Linear: linear,

	types.InQuad: inQuad, types.OutQuad: outQuad,
	types.InOutQuad: inOut(inQuad, outQuad), types.OutInQuad: outIn(inQuad, outQuad),

	types.InCubic: inCubic, types.OutCubic: outCubic,
	types.InOutCubic: inOut(inCubic, outCubic), types.OutInCubic: outIn(inCubic, outCubic),

	types.InQuart: inQuart, types.OutQuart: outQuart,
	types.InOutQuart: inOut(inQuart, outQuart), types.OutInQuart: outIn(inQuart, outQuart),

	types.InQuint: inQuint, types.OutQuint: outQuint,
	types.InOutQuint: inOut(inQuint, outQuint), types.OutInQuint: outIn(inQuint, outQuint),

	types.InSine: inSine, types.OutSine: outSine,
	types.InOutSine: inOut(inSine, outSine), types.OutInSine: outIn(inSine, outSine),

	types.InExpo: inExpo, types.OutExpo: outExpo,
	types.InOutExpo: inOut(inExpo, outExpo), types.OutInExpo: outIn(inExpo, outExpo),

	types.InCirc: inCirc, types.OutCirc: outCirc,
	types.InOutCirc: inOut(inCirc, outCirc), types.OutInCirc: outIn(inCirc, outCirc),

	types.InElastic: inElastic, types.OutElastic: outElastic,
	types.InOutElastic: inOutElastic, types.OutInElastic: outInElastic,

	types.InBack: inBack, types.OutBack: outBack,
	types.InOutBack: inOut(inBack, outBack), types.OutInBack: outIn(inBack, outBack),

	types.InBounce: inBounce, types.OutBounce: outBounce,
	types.InOutBounce: inOutBounce, types.OutInBounce: outInBounce,
}

// Lookup returns the Func for a named curve, and false for an unrecognized
// name (a configuration error per spec.md §7 kind 1).
func Lookup(c types.EasingCurve) (Func, bool) {
	f, ok := table[c]
	return f, ok
}
