package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/mgomes/minic/minic"
)

const sourceExt = ".mc"

type checkResult struct {
	path   string
	tokens int
	err    error
}

func checkCommand(args []string) error {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	flags.SetOutput(new(flagErrorSink))
	verbose := flags.Bool("v", false, "report every file, not only failures")
	if err := flags.Parse(args); err != nil {
		return usageError(err.Error())
	}

	targets := flags.Args()
	if len(targets) == 0 {
		return usageError("minic check: path required")
	}

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range scanFiles(files) {
		if res.err != nil {
			failed++
			fmt.Println(describeFailure(res))
			continue
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "  ok %s (%d tokens)\n", res.path, res.tokens)
		}
	}

	if failed > 0 {
		return fmt.Errorf("minic check: %d of %d file(s) failed to scan", failed, len(files))
	}
	fmt.Printf("%d file(s) scanned\n", len(files))
	return nil
}

// scanFiles scans every file on a bounded set of goroutines. Results keep
// the order of files.
func scanFiles(files []string) []checkResult {
	results := make([]checkResult, len(files))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = scanFile(path)
		}(i, path)
	}

	wg.Wait()
	return results
}

func scanFile(path string) checkResult {
	input, err := readSource(path)
	if err != nil {
		return checkResult{path: path, err: err}
	}
	tokens, err := minic.Scan(input)
	if err != nil {
		return checkResult{path: path, err: err}
	}
	return checkResult{path: path, tokens: len(tokens)}
}

func describeFailure(res checkResult) string {
	var scanErr *minic.ScanError
	if errors.As(res.err, &scanErr) {
		return fmt.Sprintf("%s:%d:%d: %s", res.path, scanErr.Pos.Line, scanErr.Pos.Column, scanErr.Msg)
	}
	return fmt.Sprintf("%s: %v", res.path, res.err)
}

// collectSourceFiles expands directories to the .mc files they contain.
// Files named explicitly are kept whatever their extension.
func collectSourceFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() || filepath.Ext(path) != sourceExt {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
