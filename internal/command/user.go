package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/coursehub/internal/apperror"
	"github.com/sakif/coursehub/internal/service"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(userCreateCommand())
	return cmd
}

func userCreateCommand() *cobra.Command {
	var firstName, lastName string

	cmd := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Create user",
		Long: "Registers a user exactly as POST /api/users would, with the same validation.\n" +
			"The password is read twice, from the interactive prompt or from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.db.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			in, out := cmd.InOrStdin(), cmd.ErrOrStderr()
			passwd, err := prompt(in, out, "password: ", true)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			confirm, err := prompt(in, out, "confirm password: ", true)
			if err != nil {
				return fmt.Errorf("reading password confirmation: %w", err)
			}

			user, err := svc.users.Register(cmd.Context(), service.RegisterInput{
				FirstName:       firstName,
				LastName:        lastName,
				EmailAddress:    args[0],
				Password:        string(passwd),
				PasswordConfirm: string(confirm),
			})
			if apperror.KindOf(err) == apperror.KindValidation {
				fmt.Fprintln(out, "user not created:")
				printViolations(out, err)
				return err
			}
			if err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "created user",
				slog.String("id", user.ID),
				slog.String("emailAddress", user.EmailAddress),
			)
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first", "", "first name")
	cmd.Flags().StringVar(&lastName, "last", "", "last name")
	return cmd
}
