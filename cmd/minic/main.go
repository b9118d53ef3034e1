package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mgomes/minic/minic"
)

var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

func main() {
	os.Exit(exitCode(runCLI(os.Args), os.Stderr))
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError("source file required")
	}
	switch args[1] {
	case "check":
		return checkCommand(args[2:])
	case "repl":
		return runREPL()
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return scanCommand(args[1:])
	}
}

// exitCode reports err on stderr and maps it to the process status:
// 0 on success, 2 for usage errors, 1 for everything else.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var usage usageErr
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		return 2
	}
	fmt.Fprintln(stderr, errorLabel("ERROR:"), err)
	return 1
}

func scanCommand(args []string) error {
	fs := flag.NewFlagSet("minic", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	colorize := fs.Bool("color", false, "style the token dump")
	verbose := fs.Bool("v", false, "report progress on stderr")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return usageError("source file required")
	}

	path := remaining[0]
	input, err := readSource(path)
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "scanning %s (%d bytes)\n", path, len(input))
	}

	tokens, err := minic.Scan(input)
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "  generated %d tokens\n", len(tokens))
	}

	out := bufio.NewWriter(os.Stdout)
	if *colorize {
		for _, tok := range tokens {
			fmt.Fprintln(out, renderTokenLine(tok))
		}
	} else if err := minic.WriteTokens(out, tokens); err != nil {
		return err
	}
	return out.Flush()
}

type usageErr struct {
	msg string
}

func (e usageErr) Error() string {
	return e.msg
}

func usageError(msg string) error {
	printUsage()
	return usageErr{msg: msg}
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s check [-v] <path>...\n", prog)
	fmt.Fprintf(os.Stderr, "       %s repl | lsp | help\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -color")
	fmt.Fprintln(os.Stderr, "    style the token dump")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    report progress on stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// readSource loads a source file with CRLF and lone CR line breaks turned
// into LF, so string literals and positions do not depend on the platform
// that wrote the file.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return newlineNormalizer.Replace(string(data)), nil
}
