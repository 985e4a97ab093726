package engine

import "testing"

func TestOptions_Bitmap(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Options
		want  uint64
	}{
		{"empty", func() *Options { return NewOptions() }, 0},
		{"threads", func() *Options { return NewOptions().Threads(true) }, FeatureThreads},
		{"simd+bulk", func() *Options { return NewOptions().SIMD(true).BulkMemory(true) }, FeatureSIMD | FeatureBulkMemory},
		{
			"everything",
			func() *Options {
				return NewOptions().Threads(true).ReferenceTypes(true).SIMD(true).
					BulkMemory(true).MultiValue(true).TailCall(true).ModuleLinking(true).
					MultiMemory(true).Memory64(true).DisableStartSection(true).ForceMemoryExport(true)
			},
			FeatureThreads | FeatureReferenceTypes | FeatureSIMD | FeatureBulkMemory |
				FeatureMultiValue | FeatureTailCall | FeatureModuleLinking | FeatureMultiMemory |
				FeatureMemory64 | FeatureDisableStartSection | FeatureForceMemoryExport,
		},
		{"toggle off clears", func() *Options { return NewOptions().SIMD(true).SIMD(false) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.build()
			if got := o.Bitmap(); got != tt.want {
				t.Errorf("Bitmap() = %b, want %b", got, tt.want)
			}
			// Bitmap is pure: calling it again changes nothing.
			if got := o.Bitmap(); got != tt.want {
				t.Errorf("second Bitmap() = %b, want %b", got, tt.want)
			}
		})
	}
}

func TestOptions_NilBitmap(t *testing.T) {
	var o *Options
	if o.Bitmap() != 0 {
		t.Error("nil options should encode as zero")
	}
}

func TestFeatureBits_Distinct(t *testing.T) {
	bits := []uint64{
		FeatureThreads, FeatureReferenceTypes, FeatureSIMD, FeatureBulkMemory,
		FeatureMultiValue, FeatureTailCall, FeatureModuleLinking, FeatureMultiMemory,
		FeatureMemory64, FeatureDisableStartSection, FeatureForceMemoryExport,
	}
	var mask uint64
	for i, b := range bits {
		if b == 0 || b&(b-1) != 0 {
			t.Errorf("bit %d is not a single bit: %b", i, b)
		}
		if mask&b != 0 {
			t.Errorf("bit %d overlaps an earlier feature", i)
		}
		mask |= b
	}
}
