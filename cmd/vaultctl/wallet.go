package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/local-vault/internal/common"
	"github.com/AlexZinkM/local-vault/internal/config"
	"github.com/AlexZinkM/local-vault/internal/legacy"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/solana"

	"github.com/spf13/cobra"
)

var (
	restore    bool
	exportFile string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a wallet and seal it under a password",
	Long:  "Generate a new 24-word wallet (or restore one with --restore) and store it encrypted. The mnemonic is printed once.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a password against the stored wallet",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Re-encrypt the wallet under a new password",
	Args:  cobra.NoArgs,
	RunE:  runPasswd,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the encrypted backup to a file or stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [backup-file]",
	Short: "Replace the stored wallet with an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := walletSvc.Clear(); err != nil {
			return err
		}
		fmt.Println("Wallet cleared")
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [wallet.cwt]",
	Short: "Move a legacy .cwt wallet into the vault",
	Long:  "Decrypt a legacy scrypt-protected .cwt file and seal its key under a new vault password. Legacy files carry no mnemonic.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(initCmd, verifyCmd, passwdCmd, exportCmd, importCmd, clearCmd, migrateCmd)

	initCmd.Flags().BoolVar(&restore, "restore", false, "prompt for an existing mnemonic instead of generating one")
	exportCmd.Flags().StringVarP(&exportFile, "out", "o", "", "output file (default stdout)")
}

func runInit(cmd *cobra.Command, args []string) error {
	if walletSvc.Exists() {
		return errors.New("wallet already exists; run clear first")
	}

	var (
		record *model.WalletSecret
		err    error
	)
	if restore {
		phrase, perr := config.PromptPassword("Mnemonic: ")
		if perr != nil {
			return perr
		}
		record, err = solana.WalletFromMnemonic(string(phrase))
		clear(phrase)
	} else {
		record, err = solana.GenerateWallet()
	}
	if err != nil {
		return err
	}

	password, err := promptNewPassword("New password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	mnemonic, address := record.Mnemonic, record.Address
	if err := walletSvc.Seal(record, password); err != nil {
		return err
	}

	fmt.Printf("Wallet created: %s\n", address)
	if !restore {
		fmt.Println("Write down your recovery phrase. It will not be shown again:")
		fmt.Println(mnemonic)
	}
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	password, err := config.PromptPassword("Password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	if !walletSvc.VerifyPassword(password) {
		return errors.New("incorrect password or corrupted data")
	}
	fmt.Println("Password OK")
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	oldPassword, err := config.PromptPassword("Current password: ")
	if err != nil {
		return err
	}
	defer clear(oldPassword)

	newPassword, err := promptNewPassword("New password: ")
	if err != nil {
		return err
	}
	defer clear(newPassword)

	if err := walletSvc.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Println("Password changed")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := walletSvc.Export()
	if err != nil {
		return err
	}
	if exportFile == "" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(exportFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Backup written to %s\n", exportFile)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := walletSvc.Import(data); err != nil {
		return err
	}
	fmt.Println("Wallet imported")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if walletSvc.Exists() {
		return errors.New("wallet already exists; run clear first")
	}

	oldPassword, err := config.PromptPassword("Legacy wallet password: ")
	if err != nil {
		return err
	}
	record, err := legacy.ReadCWT(args[0], oldPassword, legacy.DefaultScrypt)
	clear(oldPassword)
	if err != nil {
		return err
	}

	password, err := promptNewPassword("New vault password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	address := record.Address
	if err := walletSvc.Seal(record, password); err != nil {
		return err
	}
	fmt.Printf("Migrated wallet %s\n", common.MaskAddress(address))
	return nil
}
