package main

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/local-vault/internal/config"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/recovery"

	"github.com/spf13/cobra"
)

var questionIDs []string

var recoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Manage security questions",
}

var recoverySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store answers to three security questions",
	Long:  "Prompt for answers to the questions given with --question, or to three random questions from the catalog.",
	Args:  cobra.NoArgs,
	RunE:  runRecoverySet,
}

var recoveryVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check answers against the stored set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := promptStoredAnswers()
		if err != nil {
			return err
		}
		if !answerSvc.VerifyAnswers(answers) {
			return errors.New("answers do not match")
		}
		fmt.Println("Answers OK")
		return nil
	},
}

var recoveryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Change the password after answering the security questions",
	Args:  cobra.NoArgs,
	RunE:  runRecoveryReset,
}

var recoveryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored security answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := answerSvc.Clear(); err != nil {
			return err
		}
		fmt.Println("Recovery set cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recoveryCmd)
	recoveryCmd.AddCommand(recoverySetCmd, recoveryVerifyCmd, recoveryResetCmd, recoveryClearCmd)

	recoverySetCmd.Flags().StringSliceVarP(&questionIDs, "question", "q", nil, "question id to answer (repeat three times)")
}

func runRecoverySet(cmd *cobra.Command, args []string) error {
	var questions []model.Question
	if len(questionIDs) == 0 {
		picked, err := recovery.RandomQuestions(recovery.SetSize)
		if err != nil {
			return err
		}
		questions = picked
	} else {
		for _, id := range questionIDs {
			q, ok := recovery.LookupQuestion(id)
			if !ok {
				return fmt.Errorf("%w: %s", recovery.ErrUnknownQuestion, id)
			}
			questions = append(questions, q)
		}
	}

	answers, err := promptAnswers(questions)
	if err != nil {
		return err
	}
	if err := answerSvc.StoreAnswers(answers); err != nil {
		return err
	}
	fmt.Println("Recovery answers saved")
	return nil
}

func runRecoveryReset(cmd *cobra.Command, args []string) error {
	answers, err := promptStoredAnswers()
	if err != nil {
		return err
	}
	if !answerSvc.VerifyAnswers(answers) {
		return errors.New("answers do not match")
	}

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

func promptStoredAnswers() ([]model.RecoveryAnswer, error) {
	questions, err := answerSvc.GetQuestions()
	if err != nil {
		return nil, err
	}
	return promptAnswers(questions)
}

// promptAnswers reads answers without echo, they are as sensitive as passwords.
func promptAnswers(questions []model.Question) ([]model.RecoveryAnswer, error) {
	answers := make([]model.RecoveryAnswer, 0, len(questions))
	for _, q := range questions {
		raw, err := config.PromptPassword(q.Text + " ")
		if err != nil {
			return nil, err
		}
		answers = append(answers, model.RecoveryAnswer{QuestionID: q.ID, Answer: string(raw)})
		clear(raw)
	}
	return answers, nil
}
