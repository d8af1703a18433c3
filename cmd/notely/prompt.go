package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// promptSecret reads a line without echo when stdin is a terminal.
func promptSecret(label string) string {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fatal("Failed to read input", err)
		}
		return string(raw)
	}
	return readLine()
}

func prompt(label string) string {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	return readLine()
}

func readLine() string {
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

// secretFlag returns value, prompting for it when the flag was not given.
func secretFlag(value, label string) string {
	if value != "" {
		return value
	}
	return promptSecret(label)
}
