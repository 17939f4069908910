package disloc

import (
	"encoding/json"
	"math"
)

// Number is a float64 that encodes NaN and ±Inf as JSON null.
// Unphysical patches can leave such values in a result.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Numbers converts v for JSON output
func Numbers(v []float64) []Number {
	out := make([]Number, len(v))
	for i, x := range v {
		out[i] = Number(x)
	}
	return out
}

// ResultJSON is the JSON form of a Result
type ResultJSON struct {
	U []Number `json:"u"`
	D []Number `json:"d"`
	S []Number `json:"s"`
}

// JSON returns r with non-finite components written as null
func (r Result) JSON() ResultJSON {
	return ResultJSON{U: Numbers(r.U[:]), D: Numbers(r.D[:]), S: Numbers(r.S[:])}
}
