package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jvmtools/classread/bytecode"
	"github.com/jvmtools/classread/class"
	"github.com/jvmtools/classread/classprint"
)

func main() {
	var (
		showCode    = flag.Bool("c", false, "Disassemble method bodies")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose decoder logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: javap-lite [-c] [-v] <file.class>")
		fmt.Fprintln(os.Stderr, "       javap-lite -i <file.class>  (interactive mode)")
		os.Exit(1)
	}
	classFile := flag.Arg(0)

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		class.SetLogger(logger)
		bytecode.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(classFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(classFile, *showCode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(classFile string, showCode bool) error {
	data, err := os.ReadFile(classFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	cf, trailing, err := class.ParseClassFile(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(trailing) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d trailing byte(s) after class file\n", len(trailing))
	}

	text, err := classprint.Render(cf)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Print(text)

	if showCode {
		fmt.Println()
		for _, m := range cf.Methods {
			listing, err := disassemble(cf, m)
			if err != nil {
				return fmt.Errorf("disassemble: %w", err)
			}
			fmt.Print(listing)
		}
	}
	return nil
}

// disassemble renders a method's Code attribute as offset-prefixed
// assembly. Methods without code (abstract, native) get a one-line note.
func disassemble(cf *class.ClassFile, m class.Method) (string, error) {
	name, err := cf.ConstantPool.Utf8At(m.NameIndex)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", name)

	code := findCode(m.Attributes)
	if code == nil {
		b.WriteString("  (no code)\n")
		return b.String(), nil
	}
	listing, err := classprint.RenderCode(*code)
	if err != nil {
		return "", err
	}
	b.WriteString(listing)
	return b.String(), nil
}

func findCode(attrs []class.Attribute) *class.Code {
	for _, a := range attrs {
		if c, ok := a.(class.Code); ok {
			return &c
		}
	}
	return nil
}
