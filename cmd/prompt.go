package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// prompter asks questions on the command's input and output streams.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a Y/N question until it gets one of the two answers.
func (p *prompter) confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s (Y/N): ", question)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(answer) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer Y or N.")
	}
}

// choose prints a numbered menu and returns the zero-based index of the pick.
func (p *prompter) choose(question string, options []string) (int, error) {
	for {
		fmt.Fprintln(p.out, question)
		for i, o := range options {
			fmt.Fprintf(p.out, "  %d. %s\n", i+1, o)
		}
		fmt.Fprint(p.out, "> ")

		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(options))
	}
}
