package scroll

import "math"

// rateSmoothing is the weight kept by the previous refresh rate estimate on
// every step.
const rateSmoothing = 0.9

// Smooth advances current toward target by one animation step.
//
// dt is the wall-clock time in seconds since the previous step and rate the
// running estimate of the display refresh rate in Hz. The estimate is blended
// with 1/dt and the step size is chosen so that the remaining distance halves
// every halfLife seconds, whatever the actual frame rate. A non-positive dt
// leaves the estimate unchanged.
func Smooth(current, target, dt, rate, halfLife float64) (next, nextRate float64) {
	if dt > 0 {
		rate = rate*rateSmoothing + (1/dt)*(1-rateSmoothing)
	}
	alpha := Alpha(rate, halfLife)
	return current + (target-current)*alpha, rate
}

// Alpha returns the fraction of the remaining distance covered in one frame
// at the given refresh rate.
func Alpha(rate, halfLife float64) float64 {
	if rate <= 0 || halfLife <= 0 {
		return 1
	}
	return 1 - math.Pow(0.5, 1/(rate*halfLife))
}
