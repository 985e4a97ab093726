package engine

// Feature bits of the options bitmask, one reserved position per named
// toggle. The bit layout is part of the engine wire contract.
const (
	FeatureThreads uint64 = 1 << iota
	FeatureReferenceTypes
	FeatureSIMD
	FeatureBulkMemory
	FeatureMultiValue
	FeatureTailCall
	FeatureModuleLinking
	FeatureMultiMemory
	FeatureMemory64
	FeatureDisableStartSection
	FeatureForceMemoryExport
)

// Options accumulates named engine feature toggles, builder style. The set
// is write-once-before-use: build it, pass it to instance creation, and do
// not mutate it afterwards. Bitmap is pure and idempotent.
//
// No conflict validation happens here; whether a combination is usable is
// the engine's concern.
type Options struct {
	bitmap uint64
}

// NewOptions returns an option set with every feature off.
func NewOptions() *Options {
	return &Options{}
}

func (o *Options) set(bit uint64, on bool) *Options {
	if on {
		o.bitmap |= bit
	} else {
		o.bitmap &^= bit
	}
	return o
}

func (o *Options) Threads(on bool) *Options        { return o.set(FeatureThreads, on) }
func (o *Options) ReferenceTypes(on bool) *Options { return o.set(FeatureReferenceTypes, on) }
func (o *Options) SIMD(on bool) *Options           { return o.set(FeatureSIMD, on) }
func (o *Options) BulkMemory(on bool) *Options     { return o.set(FeatureBulkMemory, on) }
func (o *Options) MultiValue(on bool) *Options     { return o.set(FeatureMultiValue, on) }
func (o *Options) TailCall(on bool) *Options       { return o.set(FeatureTailCall, on) }
func (o *Options) ModuleLinking(on bool) *Options  { return o.set(FeatureModuleLinking, on) }
func (o *Options) MultiMemory(on bool) *Options    { return o.set(FeatureMultiMemory, on) }
func (o *Options) Memory64(on bool) *Options       { return o.set(FeatureMemory64, on) }

// DisableStartSection suppresses the module's start section so that
// instantiation does not run guest code.
func (o *Options) DisableStartSection(on bool) *Options {
	return o.set(FeatureDisableStartSection, on)
}

// ForceMemoryExport rewrites the module to export its memory under the
// name "memory" when it does not already.
func (o *Options) ForceMemoryExport(on bool) *Options {
	return o.set(FeatureForceMemoryExport, on)
}

// Bitmap returns the accumulated mask.
func (o *Options) Bitmap() uint64 {
	if o == nil {
		return 0
	}
	return o.bitmap
}
