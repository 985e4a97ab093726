package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/abi"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/wasm"
)

// Config holds knobs for the wazero engine that sit outside the
// per-instance option bitmask.
type Config struct {
	// MemoryLimitPages caps memory per instance in 64KiB pages.
	// 0 means wazero's default (65536 pages = 4GiB).
	MemoryLimitPages uint32
}

// WazeroEngine implements Engine on wazero. Each instance gets a private
// wazero runtime, so host module namespaces never collide across
// instances and closing one instance cannot disturb another.
type WazeroEngine struct {
	dispatcher Dispatcher
	cfg        Config

	mu        sync.Mutex
	instances map[ResourceID]*wazeroInstance
	nextID    atomic.Uint64
	closed    bool
}

type wazeroInstance struct {
	runtime wazero.Runtime
	module  api.Module
}

// NewWazeroEngine creates a wazero-backed engine routing host-function
// callbacks to d.
func NewWazeroEngine(d Dispatcher, cfg *Config) *WazeroEngine {
	e := &WazeroEngine{
		dispatcher: d,
		instances:  make(map[ResourceID]*wazeroInstance),
	}
	if cfg != nil {
		e.cfg = *cfg
	}
	return e
}

// unsupportedFeatures are option bits wazero has no implementation for.
var unsupportedFeatures = []struct {
	bit  uint64
	name string
}{
	{FeatureTailCall, "tail-call"},
	{FeatureModuleLinking, "module-linking"},
	{FeatureMultiMemory, "multi-memory"},
	{FeatureMemory64, "memory64"},
}

func (e *WazeroEngine) CreateInstance(ctx context.Context, module []byte, options uint64, handle uint32, hosts []HostDescriptor) (ResourceID, error) {
	for _, f := range unsupportedFeatures {
		if options&f.bit != 0 {
			return 0, errors.Unsupported(errors.PhaseCreate, fmt.Sprintf("feature %q is not available in this engine", f.name))
		}
	}

	module, err := e.patchModule(module, options)
	if err != nil {
		return 0, errors.Engine(errors.PhaseCreate, "rewrite module for options", err)
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithCoreFeatures(coreFeatures(options))
	if e.cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(e.cfg.MemoryLimitPages)
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if err := e.instantiateHosts(ctx, r, handle, hosts); err != nil {
		_ = r.Close(ctx)
		return 0, err
	}

	// Only the wasm start section runs at instantiation; there is no
	// _start calling convention at this layer. Dispatches triggered by the
	// start function arrive before this call returns.
	mod, err := r.InstantiateWithConfig(ctx, module, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		_ = r.Close(ctx)
		return 0, errors.Engine(errors.PhaseCreate, "instantiate module", err)
	}

	rid := ResourceID(e.nextID.Add(1))

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		_ = r.Close(ctx)
		return 0, errors.Engine(errors.PhaseCreate, "engine already closed", nil)
	}
	e.instances[rid] = &wazeroInstance{runtime: r, module: mod}
	e.mu.Unlock()

	Logger().Debug("instance created",
		zap.Uint32("handle", handle),
		zap.Uint64("resource", uint64(rid)),
		zap.Int("host_functions", len(hosts)))

	return rid, nil
}

func (e *WazeroEngine) patchModule(module []byte, options uint64) ([]byte, error) {
	var err error
	if options&FeatureDisableStartSection != 0 {
		if module, err = wasm.StripStartSection(module); err != nil {
			return nil, err
		}
	}
	if options&FeatureForceMemoryExport != 0 {
		if module, err = wasm.EnsureMemoryExport(module); err != nil {
			return nil, err
		}
	}
	return module, nil
}

// coreFeatures maps option bits onto wazero's feature set. Sign extension
// and non-trapping conversions are not part of the option contract and are
// always on, matching what current toolchains emit by default.
func coreFeatures(options uint64) api.CoreFeatures {
	features := api.CoreFeaturesV1 |
		api.CoreFeatureSignExtensionOps |
		api.CoreFeatureNonTrappingFloatToIntConversion

	if options&FeatureReferenceTypes != 0 {
		features |= api.CoreFeatureReferenceTypes
	}
	if options&FeatureSIMD != 0 {
		features |= api.CoreFeatureSIMD
	}
	if options&FeatureBulkMemory != 0 {
		features |= api.CoreFeatureBulkMemoryOperations
	}
	if options&FeatureMultiValue != 0 {
		features |= api.CoreFeatureMultiValue
	}
	if options&FeatureThreads != 0 {
		// Only the threads bit itself; the other proposals stay tied to
		// their own option bits.
		features |= experimental.CoreFeaturesThreads
	}
	return features
}

// instantiateHosts builds one wazero host module per namespace, in
// descriptor order, with every function routed through the dispatcher.
func (e *WazeroEngine) instantiateHosts(ctx context.Context, r wazero.Runtime, handle uint32, hosts []HostDescriptor) error {
	byModule := make(map[string][]HostDescriptor)
	var order []string
	for _, h := range hosts {
		if _, ok := byModule[h.Module]; !ok {
			order = append(order, h.Module)
		}
		byModule[h.Module] = append(byModule[h.Module], h)
	}

	for _, ns := range order {
		builder := r.NewHostModuleBuilder(ns)
		for _, h := range byModule[ns] {
			params, results, err := abi.DecodeSignature(h.Signature)
			if err != nil {
				return err
			}
			fn := e.dispatchFunc(handle, h.Module, h.Field, len(params), len(results))
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(fn, valueTypes(params), valueTypes(results)).
				Export(h.Field)
		}
		if _, err := builder.Instantiate(ctx); err != nil {
			return errors.Engine(errors.PhaseCreate, fmt.Sprintf("instantiate host module %q", ns), err)
		}
	}
	return nil
}

// dispatchFunc adapts the dispatcher to wazero's stack-based host calling
// convention. A dispatch error panics, which wazero converts into a trap
// aborting the in-flight guest call; the panic value survives as the
// cause of the error returned from Execute.
func (e *WazeroEngine) dispatchFunc(handle uint32, module, field string, nParams, nResults int) api.GoModuleFunc {
	return func(ctx context.Context, _ api.Module, stack []uint64) {
		args := make([]uint64, nParams)
		copy(args, stack[:nParams])

		results, err := e.dispatcher.OnHostFunction(ctx, handle, module, field, args)
		if err != nil {
			panic(err)
		}
		if len(results) != nResults {
			panic(&errors.Error{
				Phase:    errors.PhaseDispatch,
				Kind:     errors.KindArityMismatch,
				Identity: module + "." + field,
				Detail:   fmt.Sprintf("host function returned %d values, signature declares %d", len(results), nResults),
				Handle:   int(handle),
			})
		}
		copy(stack, results)
	}
}

func (e *WazeroEngine) Execute(ctx context.Context, rid ResourceID, export string, args []uint64) ([]uint64, error) {
	ins, err := e.instance(rid, errors.PhaseExecute)
	if err != nil {
		return nil, err
	}

	fn := ins.module.ExportedFunction(export)
	if fn == nil {
		return nil, errors.UnknownExport(export)
	}

	if want := len(fn.Definition().ParamTypes()); want != len(args) {
		return nil, errors.ArityMismatch(export, want, len(args))
	}

	results, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.ExecutionTrap(export, err)
	}
	return results, nil
}

func (e *WazeroEngine) ReadMemory(rid ResourceID, offset, length uint32) ([]byte, error) {
	mem, err := e.memory(rid)
	if err != nil {
		return nil, err
	}

	view, ok := mem.Read(offset, length)
	if !ok {
		return nil, errors.Engine(errors.PhaseMemory,
			fmt.Sprintf("read of %d bytes at offset %d exceeds memory size %d", length, offset, mem.Size()), nil)
	}
	// The view aliases guest memory; hand the caller a stable copy.
	buf := make([]byte, len(view))
	copy(buf, view)
	return buf, nil
}

func (e *WazeroEngine) WriteMemory(rid ResourceID, offset uint32, data []byte) error {
	mem, err := e.memory(rid)
	if err != nil {
		return err
	}

	if !mem.Write(offset, data) {
		return errors.Engine(errors.PhaseMemory,
			fmt.Sprintf("write of %d bytes at offset %d exceeds memory size %d", len(data), offset, mem.Size()), nil)
	}
	return nil
}

func (e *WazeroEngine) memory(rid ResourceID) (api.Memory, error) {
	ins, err := e.instance(rid, errors.PhaseMemory)
	if err != nil {
		return nil, err
	}
	mem := ins.module.ExportedMemory("memory")
	if mem == nil {
		return nil, errors.Engine(errors.PhaseMemory, `module does not export "memory"`, nil)
	}
	return mem, nil
}

func (e *WazeroEngine) CloseInstance(ctx context.Context, rid ResourceID) error {
	e.mu.Lock()
	ins, ok := e.instances[rid]
	delete(e.instances, rid)
	e.mu.Unlock()

	if !ok {
		return nil
	}

	Logger().Debug("instance closed", zap.Uint64("resource", uint64(rid)))
	return ins.runtime.Close(ctx)
}

func (e *WazeroEngine) Close(ctx context.Context) error {
	e.mu.Lock()
	remaining := e.instances
	e.instances = make(map[ResourceID]*wazeroInstance)
	e.closed = true
	e.mu.Unlock()

	var firstErr error
	for _, ins := range remaining {
		if err := ins.runtime.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *WazeroEngine) instance(rid ResourceID, phase errors.Phase) (*wazeroInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ins, ok := e.instances[rid]
	if !ok {
		return nil, &errors.Error{
			Phase:  phase,
			Kind:   errors.KindUnknownInstance,
			Detail: fmt.Sprintf("no engine instance for resource %d", rid),
			Handle: -1,
		}
	}
	return ins, nil
}

func valueTypes(ts []abi.ValType) []api.ValueType {
	if len(ts) == 0 {
		return nil
	}
	out := make([]api.ValueType, len(ts))
	for i, t := range ts {
		switch t {
		case abi.I32:
			out[i] = api.ValueTypeI32
		case abi.I64:
			out[i] = api.ValueTypeI64
		case abi.F32:
			out[i] = api.ValueTypeF32
		case abi.F64:
			out[i] = api.ValueTypeF64
		}
	}
	return out
}
