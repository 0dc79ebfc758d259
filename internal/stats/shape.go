package stats

// Shape names the expected form of a dice-sum distribution.
type Shape int

const (
	// ShapeUniform is a single die: every face equally likely.
	ShapeUniform Shape = iota
	// ShapeTriangular is the sum of two dice.
	ShapeTriangular
	// ShapeNormal is three or more dice, where the Central Limit Theorem takes hold.
	ShapeNormal
)

// ShapeOf returns the expected shape for a pool of count dice.
func ShapeOf(count int) Shape {
	switch {
	case count <= 1:
		return ShapeUniform
	case count == 2:
		return ShapeTriangular
	default:
		return ShapeNormal
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeUniform:
		return "UNIFORM (All outcomes equally likely)"
	case ShapeTriangular:
		return "TRIANGULAR (Sum of two independent variables)"
	default:
		return "NORMAL / GAUSSIAN (Central Limit Theorem in effect)"
	}
}
