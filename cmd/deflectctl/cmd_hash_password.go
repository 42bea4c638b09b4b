package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-deflection/internal/auth"
)

var hashPasswordFlags struct {
	cost int
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [PASSWORD]",
	Short: "Print a bcrypt hash for AUTH_OPERATOR_PASSWORD_HASH",
	Long:  "Print a bcrypt hash for AUTH_OPERATOR_PASSWORD_HASH. The password is read\nfrom stdin when not given as an argument.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashPasswordFlags.cost, "cost", 12, "bcrypt cost")
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password := ""
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(password, hashPasswordFlags.cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
