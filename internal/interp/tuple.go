package interp

// Tuple applies one Interpolator to every element of a fixed-arity tuple,
// such as an RGB colour or a vector. Every element shares the same ranges.
type Tuple struct {
	Interpolator
}

// NewTuple builds a Tuple; arguments are as for New.
func NewTuple(sourceLow, sourceHigh float64, opts ...Option) (Tuple, error) {
	i, err := New(sourceLow, sourceHigh, opts...)
	if err != nil {
		return Tuple{}, err
	}
	return Tuple{Interpolator: i}, nil
}

func (t Tuple) Map2(v [2]float64) [2]float64 {
	return [2]float64{t.Map(v[0]), t.Map(v[1])}
}

func (t Tuple) Map3(v [3]float64) [3]float64 {
	return [3]float64{t.Map(v[0]), t.Map(v[1]), t.Map(v[2])}
}

func (t Tuple) Map4(v [4]float64) [4]float64 {
	return [4]float64{t.Map(v[0]), t.Map(v[1]), t.Map(v[2]), t.Map(v[3])}
}

// MapSlice returns a new slice holding the mapped values of vs, in order.
// vs is not modified.
func (t Tuple) MapSlice(vs []float64) []float64 {
	return MapEach(t.Interpolator, vs)
}

// MapEach maps every element of s with i, preserving the slice type.
func MapEach[S ~[]float64](i Interpolator, s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	for k, v := range s {
		out[k] = i.Map(v)
	}
	return out
}
