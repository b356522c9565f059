package scoring

type band struct {
	min   int
	grade string
}

var (
	sevenBands = []band{{90, "A+"}, {80, "A"}, {70, "B+"}, {60, "B"}, {50, "C+"}, {40, "C"}}
	fourBands  = []band{{80, "A"}, {60, "B"}, {40, "C"}}
)

// Grade7 maps a total to the seven-band scale used by the advanced scheme.
// Lower bounds are inclusive.
func Grade7(total int) string {
	return gradeFor(total, sevenBands)
}

// Grade4 maps a total to the coarse scale used by the fallback scheme
func Grade4(total int) string {
	return gradeFor(total, fourBands)
}

func gradeFor(total int, bands []band) string {
	for _, b := range bands {
		if total >= b.min {
			return b.grade
		}
	}
	return "D"
}
