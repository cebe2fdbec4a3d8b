package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-sorter/internal/organize"
)

const rootPrompt = "Enter the root folder path: "

// promptRoot asks for the root folder on out and reads one line from in.
func promptRoot(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, rootPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading root folder: %w", err)
	}
	root := strings.TrimSpace(line)
	if root == "" {
		return "", errors.New("no root folder given")
	}
	return root, nil
}

// resolveRoot picks the root from the first argument, the config, or an
// interactive prompt, in that order, and checks that it is a directory.
func resolveRoot(args []string, configured string, in io.Reader, out io.Writer) (string, error) {
	root := configured
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		var err error
		if root, err = promptRoot(in, out); err != nil {
			return "", err
		}
	}

	root = filepath.Clean(root)
	fmt.Fprintf(out, "Using root folder: %s\n", root)
	if err := organize.CheckRoot(root); err != nil {
		return "", fmt.Errorf("%s is not a valid directory.", root)
	}
	return root, nil
}
