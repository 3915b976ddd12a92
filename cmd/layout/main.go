package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"golang.org/x/term"

	nativebridge "github.com/wippyai/native-bridge"
	"github.com/wippyai/native-bridge/capstone"
	"github.com/wippyai/native-bridge/guest"
	"github.com/wippyai/native-bridge/marshal"
	"github.com/wippyai/native-bridge/native"
)

var pointLayout = marshal.Describe("point",
	marshal.F("x", wit.S32{}),
	marshal.F("y", wit.S32{}),
)

var layouts = map[string]func() *marshal.TypeLayout{
	"insn":   func() *marshal.TypeLayout { return capstone.InsnLayout.Layout() },
	"arm_op": func() *marshal.TypeLayout { return capstone.ArmOperandLayout.Layout() },
	"point":  func() *marshal.TypeLayout { return pointLayout },
}

var layoutOrder = []string{"insn", "arm_op", "point"}

func main() {
	var (
		typeName    = flag.String("type", "", "Structure to print: insn, arm_op, point or all")
		code        = flag.String("arm64", "", "AArch64 machine code as hex to disassemble through the bridge")
		addr        = flag.String("addr", "0x1000", "Address of the first instruction")
		backend     = flag.String("backend", "native", "Memory backend: native or wasm")
		debug       = flag.Bool("debug", false, "Enable guard regions and length assertions")
		verbose     = flag.Bool("v", false, "Log allocations to stderr")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *typeName == "" && *code == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: layout -type insn|arm_op|point|all")
		fmt.Fprintln(os.Stderr, "       layout -arm64 <hex> [-addr 0x1000] [-backend native|wasm] [-debug]")
		fmt.Fprintln(os.Stderr, "       layout -i [-backend native|wasm] [-debug]  (interactive mode)")
		os.Exit(1)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		marshal.SetLogger(log.Named("marshal"))
		capstone.SetLogger(log.Named("capstone"))
		guest.SetLogger(log.Named("guest"))
		native.SetLogger(log.Named("native"))
	}

	if *interactive {
		if err := runInteractive(*backend, *debug); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *typeName != "" {
		if err := printLayouts(os.Stdout, *typeName, styled); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *code != "" {
		if err := disasm(os.Stdout, *code, *addr, *backend, *debug, styled); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printLayouts(w io.Writer, name string, styled bool) error {
	names := []string{name}
	if name == "all" {
		names = layoutOrder
	}
	for _, n := range names {
		get, ok := layouts[n]
		if !ok {
			return fmt.Errorf("unknown type %q", n)
		}
		printLayout(w, get(), styled)
	}
	return nil
}

func disasm(w io.Writer, hexCode, addrStr, backend string, debug, styled bool) error {
	ctx := context.Background()

	code, err := hex.DecodeString(strings.ReplaceAll(hexCode, " ", ""))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	address, err := strconv.ParseUint(addrStr, 0, 64)
	if err != nil {
		return fmt.Errorf("parse address: %w", err)
	}

	var space nativebridge.Space
	switch backend {
	case "native":
		space = native.New()
	case "wasm":
		r := wazero.NewRuntime(ctx)
		defer r.Close(ctx)

		mod, err := r.Instantiate(ctx, guest.ArenaModule())
		if err != nil {
			return fmt.Errorf("instantiate arena: %w", err)
		}
		if space, err = guest.New(ctx, mod, nil); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	mgr := marshal.NewManagerWithConfig(space, &marshal.Config{Debug: debug})
	insns, err := capstone.NewEmulator().Instructions(mgr, code, address)
	if err != nil {
		return err
	}

	printInsns(w, insns, styled)
	return nil
}
