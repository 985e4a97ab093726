package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-bridge/abi"
	"github.com/wippyai/wasm-bridge/engine"
	"github.com/wippyai/wasm-bridge/runtime"
	"github.com/wippyai/wasm-bridge/wasm"
)

func main() {
	var (
		wasmFile     = flag.String("wasm", "", "Path to core wasm module")
		funcName     = flag.String("func", "", "Exported function to call")
		argList      = flag.String("args", "", "Arguments (comma-separated, floats allowed)")
		list         = flag.Bool("list", false, "List exported functions and exit")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
		verbose      = flag.Bool("v", false, "Verbose logging")
		threads      = flag.Bool("threads", false, "Enable the threads proposal")
		simd         = flag.Bool("simd", false, "Enable SIMD")
		bulkMemory   = flag.Bool("bulk-memory", false, "Enable bulk memory operations")
		refTypes     = flag.Bool("reference-types", false, "Enable reference types")
		multiValue   = flag.Bool("multi-value", false, "Enable multi-value")
		stripStart   = flag.Bool("strip-start", false, "Do not run the module's start function")
		exportMemory = flag.Bool("export-memory", false, "Force a \"memory\" export if the module declares one")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <file.wasm> -func name [-args 1,2.5,...]")
		fmt.Fprintln(os.Stderr, "       run -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       run -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	opts := engine.NewOptions().
		Threads(*threads).
		SIMD(*simd).
		BulkMemory(*bulkMemory).
		ReferenceTypes(*refTypes).
		MultiValue(*multiValue).
		DisableStartSection(*stripStart).
		ForceMemoryExport(*exportMemory)

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *funcName, *argList, opts, *list, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, funcName, argList string, opts *engine.Options, listOnly, verbose bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	sigs, err := wasm.ExportedFunctions(data)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	fmt.Printf("Module: %s (%d bytes)\n", wasmFile, len(data))
	fmt.Printf("\nExported functions:\n")
	for _, s := range sigs {
		fmt.Printf("  %s\n", formatSignature(s))
	}

	if listOnly {
		return nil
	}

	rtOpts := []runtime.Option{}
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
		rtOpts = append(rtOpts, runtime.WithLogger(log))
	}

	rt, err := runtime.New(ctx, rtOpts...)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	ins, err := rt.Instantiate(ctx, data, opts, demoHosts())
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer ins.Close(ctx)

	if funcName == "" {
		for _, candidate := range []string{"_start", "run", "main"} {
			for _, s := range sigs {
				if s.Name == candidate {
					funcName = candidate
					break
				}
			}
			if funcName != "" {
				break
			}
		}
		if funcName == "" && len(sigs) == 1 {
			funcName = sigs[0].Name
		}
		if funcName == "" {
			fmt.Printf("\nNo function specified. Use -func to pick one.\n")
			return nil
		}
	}

	sig, ok := findSignature(sigs, funcName)
	if !ok {
		return fmt.Errorf("function %q is not exported", funcName)
	}

	args, err := parseArgs(argList, sig.Params)
	if err != nil {
		return err
	}

	fmt.Printf("\nCalling %s(%s)...\n", funcName, argList)
	results, err := ins.Execute(ctx, funcName, args)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}

	fmt.Printf("Result: %s\n", formatResults(results, sig.Results))
	return nil
}

// demoHosts provides the conventional env imports a standalone module may
// expect: env.log(i64) prints, env.now() returns unix milliseconds.
func demoHosts() []runtime.HostFunction {
	return []runtime.HostFunction{
		&runtime.Func{
			FieldName:  "log",
			ParamTypes: []abi.ValType{abi.I64},
			Fn: func(ctx context.Context, ins *runtime.Instance, args []uint64) ([]uint64, error) {
				fmt.Printf("[guest] %d\n", int64(args[0]))
				return nil, nil
			},
		},
		&runtime.Func{
			FieldName:   "now",
			ResultTypes: []abi.ValType{abi.I64},
			Fn: func(ctx context.Context, ins *runtime.Instance, args []uint64) ([]uint64, error) {
				return []uint64{abi.EncodeI64(time.Now().UnixMilli())}, nil
			},
		},
	}
}

func findSignature(sigs []wasm.FuncSignature, name string) (wasm.FuncSignature, bool) {
	for _, s := range sigs {
		if s.Name == name {
			return s, true
		}
	}
	return wasm.FuncSignature{}, false
}

// parseArgs converts comma-separated literals to the uniform uint64
// representation, guided by the export's parameter types.
func parseArgs(argList string, params []byte) ([]uint64, error) {
	var fields []string
	if argList != "" {
		fields = strings.Split(argList, ",")
	}
	if len(fields) != len(params) {
		return nil, fmt.Errorf("function takes %d arguments, got %d", len(params), len(fields))
	}

	args := make([]uint64, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		var err error
		if args[i], err = parseArg(f, params[i]); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return args, nil
}

func parseArg(s string, valType byte) (uint64, error) {
	switch valType {
	case wasm.TypeI32:
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return 0, err
		}
		return abi.EncodeI32(int32(v)), nil
	case wasm.TypeI64:
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, err
		}
		return abi.EncodeI64(v), nil
	case wasm.TypeF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return 0, err
		}
		return abi.EncodeF32(float32(v)), nil
	case wasm.TypeF64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return abi.EncodeF64(v), nil
	default:
		return 0, fmt.Errorf("unsupported value type 0x%02X", valType)
	}
}

func formatResults(results []uint64, types []byte) string {
	if len(results) == 0 {
		return "(none)"
	}
	parts := make([]string, len(results))
	for i, r := range results {
		if i < len(types) {
			parts[i] = formatValue(r, types[i])
		} else {
			parts[i] = strconv.FormatUint(r, 10)
		}
	}
	return strings.Join(parts, ", ")
}

func formatValue(v uint64, valType byte) string {
	switch valType {
	case wasm.TypeI32:
		return strconv.FormatInt(int64(abi.DecodeI32(v)), 10)
	case wasm.TypeI64:
		return strconv.FormatInt(abi.DecodeI64(v), 10)
	case wasm.TypeF32:
		return strconv.FormatFloat(float64(abi.DecodeF32(v)), 'g', -1, 32)
	case wasm.TypeF64:
		return strconv.FormatFloat(abi.DecodeF64(v), 'g', -1, 64)
	default:
		return strconv.FormatUint(v, 10)
	}
}

func valTypeStr(valType byte) string {
	switch valType {
	case wasm.TypeI32:
		return "i32"
	case wasm.TypeI64:
		return "i64"
	case wasm.TypeF32:
		return "f32"
	case wasm.TypeF64:
		return "f64"
	default:
		return fmt.Sprintf("0x%02X", valType)
	}
}

func formatSignature(s wasm.FuncSignature) string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = valTypeStr(p)
	}
	out := s.Name + "(" + strings.Join(params, ", ") + ")"
	if len(s.Results) > 0 {
		rs := make([]string, len(s.Results))
		for i, r := range s.Results {
			rs[i] = valTypeStr(r)
		}
		out += " -> " + strings.Join(rs, ", ")
	}
	return out
}
