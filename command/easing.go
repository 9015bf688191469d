package command

import (
	"strconv"

	"github.com/fogleman/ease"
)

// Easing selects the curve the player interpolates a command with.
type Easing int

const (
	EasingLinear Easing = iota
	EasingOut
	EasingIn
	EasingQuadIn
	EasingQuadOut
	EasingQuadInOut
	EasingCubicIn
	EasingCubicOut
	EasingCubicInOut
	EasingQuartIn
	EasingQuartOut
	EasingQuartInOut
	EasingQuintIn
	EasingQuintOut
	EasingQuintInOut
	EasingSineIn
	EasingSineOut
	EasingSineInOut
	EasingExpoIn
	EasingExpoOut
	EasingExpoInOut
	EasingCircIn
	EasingCircOut
	EasingCircInOut
	EasingElasticIn
	EasingElasticOut
	EasingElasticHalfOut
	EasingElasticQuarterOut
	EasingElasticInOut
	EasingBackIn
	EasingBackOut
	EasingBackInOut
	EasingBounceIn
	EasingBounceOut
	EasingBounceInOut
)

// EaseFunc maps linear progress in [0,1] to eased progress.
type EaseFunc func(t float64) float64

var easeFuncs = map[Easing]func(float64) float64{
	EasingLinear:            ease.Linear,
	EasingOut:               ease.OutQuad,
	EasingIn:                ease.InQuad,
	EasingQuadIn:            ease.InQuad,
	EasingQuadOut:           ease.OutQuad,
	EasingQuadInOut:         ease.InOutQuad,
	EasingCubicIn:           ease.InCubic,
	EasingCubicOut:          ease.OutCubic,
	EasingCubicInOut:        ease.InOutCubic,
	EasingQuartIn:           ease.InQuart,
	EasingQuartOut:          ease.OutQuart,
	EasingQuartInOut:        ease.InOutQuart,
	EasingQuintIn:           ease.InQuint,
	EasingQuintOut:          ease.OutQuint,
	EasingQuintInOut:        ease.InOutQuint,
	EasingSineIn:            ease.InSine,
	EasingSineOut:           ease.OutSine,
	EasingSineInOut:         ease.InOutSine,
	EasingExpoIn:            ease.InExpo,
	EasingExpoOut:           ease.OutExpo,
	EasingExpoInOut:         ease.InOutExpo,
	EasingCircIn:            ease.InCirc,
	EasingCircOut:           ease.OutCirc,
	EasingCircInOut:         ease.InOutCirc,
	EasingElasticIn:         ease.InElastic,
	EasingElasticOut:        ease.OutElastic,
	EasingElasticHalfOut:    ease.OutElastic,
	EasingElasticQuarterOut: ease.OutElastic,
	EasingElasticInOut:      ease.InOutElastic,
	EasingBackIn:            ease.InBack,
	EasingBackOut:           ease.OutBack,
	EasingBackInOut:         ease.InOutBack,
	EasingBounceIn:          ease.InBounce,
	EasingBounceOut:         ease.OutBounce,
	EasingBounceInOut:       ease.InOutBounce,
}

// Func returns the curve for the easing code. Codes the player does not
// know fall back to linear, like the player does.
func (e Easing) Func() EaseFunc {
	if f, ok := easeFuncs[e]; ok {
		return EaseFunc(f)
	}
	return EaseFunc(ease.Linear)
}

func (e Easing) String() string {
	return strconv.Itoa(int(e))
}
