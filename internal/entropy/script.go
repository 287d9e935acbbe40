package entropy

// Script is a Source that replays fixed draws, used to pin exact dice rolls
// and policy coin flips in tests and replays. When a queue runs dry the
// Fallback source is consulted; with no fallback it returns zero values.
type Script struct {
	Floats   []float64
	Ints     []int
	Fallback Source
}

// Float64 pops the next scripted float.
func (s *Script) Float64() float64 {
	if len(s.Floats) > 0 {
		v := s.Floats[0]
		s.Floats = s.Floats[1:]
		return v
	}
	if s.Fallback != nil {
		return s.Fallback.Float64()
	}
	return 0
}

// Intn pops the next scripted int, reduced modulo n.
func (s *Script) Intn(n int) int {
	if len(s.Ints) > 0 {
		v := s.Ints[0]
		s.Ints = s.Ints[1:]
		if v < 0 {
			v = -v
		}
		return v % n
	}
	if s.Fallback != nil {
		return s.Fallback.Intn(n)
	}
	return 0
}

// Dice returns a Script whose Intn draws produce the given die faces (1..6)
// through RollDie.
func Dice(faces ...int) *Script {
	ints := make([]int, len(faces))
	for i, f := range faces {
		ints[i] = f - 1
	}
	return &Script{Ints: ints}
}
