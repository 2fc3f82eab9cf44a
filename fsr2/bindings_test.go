package fsr2

import (
	"errors"
	"math"
	"testing"
)

func TestGetUpscaleRatioFromQualityMode(t *testing.T) {
	// DOING: Query the ratio of every preset
	// EXPECT: Published ratios, ascending, all within [1, 3]
	// IF YES: Render targets can be sized from presets
	// IF NO: The ratio table or the native call is wrong

	want := map[QualityMode]float32{
		QualityModeQuality:          1.5,
		QualityModeBalanced:         1.7,
		QualityModePerformance:      2.0,
		QualityModeUltraPerformance: 3.0,
	}

	prev := float32(0)
	for _, q := range QualityModes {
		got := GetUpscaleRatioFromQualityMode(q)
		if math.IsNaN(float64(got)) || math.IsInf(float64(got), 0) {
			t.Fatalf("%v: ratio %v is not finite", q, got)
		}
		if got < 1 || got > 3 {
			t.Errorf("%v: ratio %v outside [1, 3]", q, got)
		}
		if got <= prev {
			t.Errorf("%v: ratio %v not above previous preset %v", q, got, prev)
		}
		if math.Abs(float64(got-want[q])) > 1e-6 {
			t.Errorf("%v: ratio %v, want %v", q, got, want[q])
		}
		prev = got
	}
}

func TestGetUpscaleRatioFromQualityMode_Invalid(t *testing.T) {
	for _, q := range []QualityMode{0, 5, -1} {
		if got := GetUpscaleRatioFromQualityMode(q); got != 0 {
			t.Errorf("ratio for %v = %v, want 0", q, got)
		}
	}
}

func TestGetRenderResolutionFromQualityMode(t *testing.T) {
	tests := []struct {
		q     QualityMode
		wantW uint32
		wantH uint32
	}{
		{QualityModeQuality, 2560, 1440},
		{QualityModeBalanced, 2258, 1270},
		{QualityModePerformance, 1920, 1080},
		{QualityModeUltraPerformance, 1280, 720},
	}

	for _, tt := range tests {
		t.Run(tt.q.String(), func(t *testing.T) {
			w, h, err := GetRenderResolutionFromQualityMode(3840, 2160, tt.q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if w > 3840 || h > 2160 {
				t.Error("render size exceeds display size")
			}
		})
	}
}

func TestGetRenderResolutionFromQualityMode_InvalidMode(t *testing.T) {
	_, _, err := GetRenderResolutionFromQualityMode(1920, 1080, QualityMode(7))
	if !errors.Is(err, InvalidEnum) {
		t.Errorf("error = %v, want InvalidEnum", err)
	}
	if code, ok := Code(err); !ok || code != InvalidEnum {
		t.Errorf("Code() = %v, %v; want InvalidEnum", code, ok)
	}
}

func TestGetJitterPhaseCount(t *testing.T) {
	tests := []struct {
		name         string
		renderWidth  int32
		displayWidth int32
		want         int32
	}{
		{"native", 3840, 3840, 8},
		{"quality", 2560, 3840, 18},
		{"performance", 1920, 3840, 32},
		{"ultra performance", 1280, 3840, 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetJitterPhaseCount(tt.renderWidth, tt.displayWidth)
			if got != tt.want {
				t.Errorf("GetJitterPhaseCount(%d, %d) = %d, want %d",
					tt.renderWidth, tt.displayWidth, got, tt.want)
			}
		})
	}
}

func TestGetJitterOffset(t *testing.T) {
	// DOING: Walk a full jitter sequence
	// EXPECT: Offsets in [-0.5, 0.5), first two match the Halton(2,3) sequence
	// IF YES: Camera jitter can be driven from the library
	// IF NO: Sequence or indexing is off

	const phases = 32
	seen := make(map[[2]float32]bool)
	for i := int32(0); i < phases; i++ {
		x, y, err := GetJitterOffset(i, phases)
		if err != nil {
			t.Fatalf("index %d: unexpected error: %v", i, err)
		}
		if x < -0.5 || x >= 0.5 || y < -0.5 || y >= 0.5 {
			t.Errorf("index %d: offset (%v, %v) out of range", i, x, y)
		}
		seen[[2]float32{x, y}] = true
	}
	if len(seen) != phases {
		t.Errorf("got %d distinct offsets, want %d", len(seen), phases)
	}

	x, y, _ := GetJitterOffset(0, phases)
	if !near(x, 0) || !near(y, 1.0/3-0.5) {
		t.Errorf("offset 0 = (%v, %v), want (0, -1/6)", x, y)
	}
	x, y, _ = GetJitterOffset(1, phases)
	if !near(x, -0.25) || !near(y, 2.0/3-0.5) {
		t.Errorf("offset 1 = (%v, %v), want (-0.25, 1/6)", x, y)
	}

	// The sequence wraps at phaseCount.
	x0, y0, _ := GetJitterOffset(3, phases)
	x1, y1, _ := GetJitterOffset(3+phases, phases)
	if x0 != x1 || y0 != y1 {
		t.Errorf("sequence does not wrap: (%v, %v) vs (%v, %v)", x0, y0, x1, y1)
	}
}

func TestGetJitterOffset_InvalidPhaseCount(t *testing.T) {
	for _, n := range []int32{0, -4} {
		if _, _, err := GetJitterOffset(0, n); !errors.Is(err, InvalidArgument) {
			t.Errorf("phaseCount %d: error = %v, want InvalidArgument", n, err)
		}
	}
}

func TestContextEntryPoints_Stub(t *testing.T) {
	if LinkMode() != "stub" {
		t.Skip("native library linked")
	}

	ctx := NewContext()
	defer ctx.Free()

	if err := ContextCreate(ctx, &ContextDescription{}); !errors.Is(err, ErrNotLinked) {
		t.Errorf("ContextCreate error = %v, want ErrNotLinked", err)
	}
	if err := ContextDispatch(ctx, &DispatchDescription{}); !errors.Is(err, ErrNotLinked) {
		t.Errorf("ContextDispatch error = %v, want ErrNotLinked", err)
	}
	if err := ContextGenerateReactiveMask(ctx, &GenerateReactiveDescription{}); !errors.Is(err, ErrNotLinked) {
		t.Errorf("ContextGenerateReactiveMask error = %v, want ErrNotLinked", err)
	}
	if err := ContextDestroy(ctx); !errors.Is(err, ErrNotLinked) {
		t.Errorf("ContextDestroy error = %v, want ErrNotLinked", err)
	}
}

func TestContext_FreeNil(t *testing.T) {
	var ctx *Context
	ctx.Free()
}

func near(got float32, want float64) bool {
	return math.Abs(float64(got)-want) < 1e-5
}
