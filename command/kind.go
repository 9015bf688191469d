package command

// Kind is the tag written at the start of a command line.
type Kind string

const (
	KindFade        Kind = "F"
	KindMove        Kind = "M"
	KindMoveX       Kind = "MX"
	KindMoveY       Kind = "MY"
	KindScale       Kind = "S"
	KindVectorScale Kind = "V"
	KindRotate      Kind = "R"
	KindColor       Kind = "C"
	KindParameter   Kind = "P"
	KindLoop        Kind = "L"
)

// Kinds lists every command kind in the order the player documents them.
var Kinds = []Kind{
	KindFade, KindMove, KindMoveX, KindMoveY, KindScale,
	KindVectorScale, KindRotate, KindColor, KindParameter, KindLoop,
}

// Valid reports whether k is one of the known command kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}
