package sweep

import (
	"fmt"
	"strconv"
	"strings"
)

// Param is one swept registry key and the values it takes.
type Param struct {
	Key    string
	Values []float64
}

// ParseParam reads "key=v1,v2,..." or "key=lo:hi:n" (n evenly spaced
// values, both ends included).
func ParseParam(s string) (Param, error) {
	key, spec, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.TrimSpace(spec) == "" {
		return Param{}, fmt.Errorf("invalid param %q: want key=v1,v2 or key=lo:hi:n", s)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		n, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return Param{}, fmt.Errorf("invalid range %q for %s", spec, key)
		}
		return Param{Key: key, Values: Linspace(lo, hi, n)}, nil
	}

	var values []float64
	for _, f := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Param{}, fmt.Errorf("invalid value %q for %s", f, key)
		}
		values = append(values, v)
	}
	return Param{Key: key, Values: values}, nil
}

// Linspace returns n evenly spaced values from lo to hi.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
