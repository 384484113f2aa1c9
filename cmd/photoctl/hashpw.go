package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const minPasswordLength = 6

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for APP_BASIC_PASS",
		Long: `Prompts for a password twice and prints its bcrypt hash. The hash can be
used as APP_BASIC_PASS instead of the plain password.`,
		Example: `  photoctl hash-password
  echo -e 'secret\nsecret' | photoctl hash-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
			}

			read := passwordReader(cmd.InOrStdin(), cmd.ErrOrStderr())

			password, err := read("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			confirm, err := read("Confirm password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			if !bytes.Equal(password, confirm) {
				return errors.New("passwords do not match")
			}
			if len(password) < minPasswordLength {
				return fmt.Errorf("password must be at least %d characters", minPasswordLength)
			}

			hash, err := bcrypt.GenerateFromPassword(password, cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}

// passwordReader prompts on prompts and reads without echo when in is a
// terminal, and line by line otherwise.
func passwordReader(in io.Reader, prompts io.Writer) func(prompt string) ([]byte, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return func(prompt string) ([]byte, error) {
			fmt.Fprint(prompts, prompt)
			defer fmt.Fprintln(prompts)
			return term.ReadPassword(int(f.Fd()))
		}
	}

	lines := bufio.NewReader(in)
	return func(prompt string) ([]byte, error) {
		line, err := lines.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}
}
