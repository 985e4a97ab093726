package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/abi"
	"github.com/wippyai/wasm-bridge/engine"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/registry"
)

// Runtime owns the execution engine and the instance registry. Safe for
// concurrent use.
type Runtime struct {
	engine engine.Engine
	reg    *registry.Registry
	log    *zap.Logger
}

type config struct {
	engine    engine.Engine
	engineCfg *engine.Config
	log       *zap.Logger
	capacity  int
}

// Option configures a Runtime.
type Option func(*config)

// WithCapacity bounds the number of simultaneously live instances.
// Defaults to registry.DefaultCapacity.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithEngine substitutes the execution engine. The caller is responsible
// for routing the engine's callbacks to this Runtime's OnHostFunction.
func WithEngine(e engine.Engine) Option {
	return func(c *config) { c.engine = e }
}

// WithEngineConfig tunes the default wazero engine. Ignored when a custom
// engine is supplied.
func WithEngineConfig(cfg engine.Config) Option {
	return func(c *config) { c.engineCfg = &cfg }
}

// WithLogger sets the runtime logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// New creates a Runtime backed by the wazero engine unless WithEngine
// overrides it.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	r := &Runtime{
		reg: registry.New(c.capacity),
		log: c.log,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	if c.engine != nil {
		r.engine = c.engine
	} else {
		r.engine = engine.NewWazeroEngine(r, c.engineCfg)
	}
	return r, nil
}

// Instantiate creates a module instance with the given options and host
// functions.
//
// The steps run in a fixed order: validate identity uniqueness, encode
// signatures, allocate a registry slot, install the host-function table,
// and only then ask the engine to instantiate, so that a dispatch arriving
// while the start section runs already resolves. Any failure rolls the
// slot back; a rejected create leaks nothing.
func (r *Runtime) Instantiate(ctx context.Context, module []byte, opts *engine.Options, hosts []HostFunction) (*Instance, error) {
	descs := make([]engine.HostDescriptor, 0, len(hosts))
	seen := make(map[string]struct{}, len(hosts))
	for _, hf := range hosts {
		identity := registry.Identity(hf.Module(), hf.Name())
		if _, dup := seen[identity]; dup {
			return nil, errors.DuplicateIdentity(identity)
		}
		seen[identity] = struct{}{}

		sig, err := abi.EncodeSignature(hf.Params(), hf.Results())
		if err != nil {
			return nil, err
		}
		descs = append(descs, engine.HostDescriptor{
			Module:    hf.Module(),
			Field:     hf.Name(),
			Signature: sig,
		})
	}

	h, err := r.reg.Allocate()
	if err != nil {
		return nil, err
	}

	ins := &Instance{rt: r, handle: h}
	ins.mem = &Memory{ins: ins}

	entries := make([]registry.Entry, len(hosts))
	for i, hf := range hosts {
		entries[i] = registry.Entry{
			Module:    hf.Module(),
			Field:     hf.Name(),
			Signature: descs[i].Signature,
			Fn: func(ctx context.Context, args []uint64) ([]uint64, error) {
				return hf.Call(ctx, ins, args)
			},
		}
	}

	if err := r.reg.Install(h, entries); err != nil {
		_ = r.reg.Release(h)
		return nil, err
	}

	rid, err := r.engine.CreateInstance(ctx, module, opts.Bitmap(), uint32(h), descs)
	if err != nil {
		_ = r.reg.Release(h)
		return nil, err
	}

	if err := r.reg.Bind(h, uint64(rid)); err != nil {
		_ = r.engine.CloseInstance(ctx, rid)
		_ = r.reg.Release(h)
		return nil, err
	}
	ins.rid = rid

	r.log.Debug("instance created",
		zap.Uint32("handle", uint32(h)),
		zap.Int("host_functions", len(hosts)),
		zap.Uint64("options", opts.Bitmap()))

	return ins, nil
}

// OnHostFunction is the dispatch router: the engine calls it while the
// guest is suspended mid-execution. The entry is resolved under the
// registry's read lock; the callback itself runs with no lock held, so it
// may re-enter the instance.
func (r *Runtime) OnHostFunction(ctx context.Context, handle uint32, module, field string, args []uint64) ([]uint64, error) {
	entry, err := r.reg.Resolve(registry.Handle(handle), module, field)
	if err != nil {
		r.log.Warn("host dispatch failed",
			zap.Uint32("handle", handle),
			zap.String("identity", registry.Identity(module, field)),
			zap.Error(err))
		return nil, err
	}
	return entry.Fn(ctx, args)
}

// Live returns the number of live instances.
func (r *Runtime) Live() int {
	return r.reg.Live()
}

// Capacity returns the registry's fixed slot count.
func (r *Runtime) Capacity() int {
	return r.reg.Capacity()
}

// Close releases the engine and all its resources. Instances should be
// closed before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}
