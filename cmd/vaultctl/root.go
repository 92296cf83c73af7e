package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/local-vault/internal/config"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/storage"
	"github.com/AlexZinkM/local-vault/internal/vault"

	"github.com/spf13/cobra"
)

var (
	storeType string
	storePath string

	store     storage.Store
	walletSvc *vault.Vault
	answerSvc *recovery.Store
)

var rootCmd = &cobra.Command{
	Use:           "vaultctl",
	Short:         "Manage the local wallet vault",
	Long:          "Create, verify, back up and recover the password-encrypted wallet stored on this machine.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("store-type") {
			cfg.StoreType = storeType
		}
		if cmd.Flags().Changed("store-path") {
			cfg.StorePath = storePath
		}

		log, err := config.NewLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		store, err = storage.New(cfg.StoreType, cfg.StorePath)
		if err != nil {
			return err
		}
		walletSvc = vault.New(store, vault.WithIterations(cfg.PBKDF2Iterations), vault.WithLogger(log))
		answerSvc = recovery.NewStore(store, log)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeType, "store-type", "", "storage backend (memory, file, bolt); overrides VAULT_STORE_TYPE")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store-path", "p", "", "storage file path; overrides VAULT_STORE_PATH")
}

// promptNewPassword asks twice and fails when the entries differ.
func promptNewPassword(prompt string) ([]byte, error) {
	password, err := config.PromptPassword(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := config.PromptPassword("Confirm password: ")
	if err != nil {
		clear(password)
		return nil, err
	}
	defer clear(confirm)

	if string(password) != string(confirm) {
		clear(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}
