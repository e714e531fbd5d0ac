package codec

import "testing"

func TestQualityZeroValueIsUnset(t *testing.T) {
	var q Quality
	if q.IsSet() {
		t.Fatal("zero Quality should be unset")
	}
	if _, ok := q.Value(); ok {
		t.Fatal("unset Quality should not report a value")
	}
}

func TestQualityFromPercent(t *testing.T) {
	cases := []struct {
		percent float64
		want    float64
		ok      bool
	}{
		{0, 0, true},
		{50, 0.5, true},
		{100, 1, true},
		{-1, 0, false},
		{150, 0, false},
	}
	for _, tc := range cases {
		q, ok := QualityFromPercent(tc.percent)
		if ok != tc.ok {
			t.Errorf("QualityFromPercent(%v) ok = %v, want %v", tc.percent, ok, tc.ok)
			continue
		}
		if !tc.ok {
			if q.IsSet() {
				t.Errorf("QualityFromPercent(%v): rejected value must be unset", tc.percent)
			}
			continue
		}
		value, set := q.Value()
		if !set || value != tc.want {
			t.Errorf("QualityFromPercent(%v) = %v (set=%v), want %v", tc.percent, value, set, tc.want)
		}
	}
}
