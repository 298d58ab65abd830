package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/woolywalk/internal/auth"
)

var hashPasswordInput string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print an argon2id hash for [auth] password_hash",
	Args:  cobra.NoArgs,
	RunE:  runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().StringVar(&hashPasswordInput, "password", "", "password to hash (prompted when omitted)")
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	pw := hashPasswordInput
	if pw == "" {
		var err error
		if pw, err = promptPassword("New shared password"); err != nil {
			return err
		}
		confirm, err := promptPassword("Repeat password")
		if err != nil {
			return err
		}
		if confirm != pw {
			return errors.New("passwords do not match")
		}
	}
	if pw == "" {
		return errors.New("password must not be empty")
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
