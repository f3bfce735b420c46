package serp

import (
	"math"

	"github.com/tidwall/gjson"
)

// optString yields nil unless r is a JSON string.
func optString(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

// optInt yields nil unless r is a whole JSON number within the range of int.
func optInt(r gjson.Result) *int {
	if !isWhole(r, math.MinInt, math.MaxInt) {
		return nil
	}
	v := int(r.Int())
	return &v
}

func optInt64(r gjson.Result) *int64 {
	if !isWhole(r, math.MinInt64, math.MaxInt64) {
		return nil
	}
	v := r.Int()
	return &v
}

// isWhole reports whether r is a number without fraction in [lo, hi).
// hi is exclusive because float64(math.MaxInt64) rounds up to 2^63.
func isWhole(r gjson.Result, lo, hi float64) bool {
	return r.Type == gjson.Number && r.Num == math.Trunc(r.Num) && r.Num >= lo && r.Num < hi
}

// objects returns the object elements of r when r is an array; other
// element kinds are skipped.
func objects(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	var out []gjson.Result
	for _, el := range r.Array() {
		if el.IsObject() {
			out = append(out, el)
		}
	}
	return out
}
