package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	authdomain "github.com/Apurer/tourbook/internal/domains/auth/domain"
	"github.com/Apurer/tourbook/internal/session"
)

func newAccountCommand(app *App, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "account", Short: "Manage your account"}

	me := &cobra.Command{
		Use:   "me",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			user, err := app.auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return printUser(out(cmd), user)
		},
	}

	var reg authdomain.RegisterForm
	register := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg.Email = app.cfg.Email
			reg.Password = app.cfg.Password
			if reg.ConfirmPassword == "" {
				reg.ConfirmPassword = reg.Password
			}
			user, err := app.auth.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			return printUser(out(cmd), user)
		},
	}
	register.Flags().StringVar(&reg.Name, "name", "", "display name")
	register.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	register.Flags().StringVar(&reg.ConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")
	_ = register.MarkFlagRequired("name")

	var profile authdomain.ProfileForm
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if profile.Name == "" && profile.Phone == "" {
				return errors.New("nothing to update: pass --name or --phone")
			}
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			user, err := app.auth.UpdateProfile(cmd.Context(), profile)
			if err != nil {
				return err
			}
			return printUser(out(cmd), user)
		},
	}
	update.Flags().StringVar(&profile.Name, "name", "", "new display name")
	update.Flags().StringVar(&profile.Phone, "phone", "", "new phone number")

	avatar := &cobra.Command{
		Use:   "avatar <image-file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			user, err := app.auth.UploadAvatar(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return printUser(out(cmd), user)
		},
	}

	var pw authdomain.ChangePasswordForm
	password := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if pw.CurrentPassword == "" {
				pw.CurrentPassword = app.cfg.Password
			}
			if err := app.auth.ChangePassword(cmd.Context(), pw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return nil
		},
	}
	password.Flags().StringVar(&pw.CurrentPassword, "current", "", "current password (defaults to --password)")
	password.Flags().StringVar(&pw.NewPassword, "new", "", "new password")
	_ = password.MarkFlagRequired("new")

	var confirm bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return errors.New("refusing to delete the account without --yes")
			}
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.auth.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "account deleted")
			return nil
		},
	}
	del.Flags().BoolVar(&confirm, "yes", false, "confirm deletion")

	cmd.AddCommand(me, register, update, avatar, password, del)
	return cmd
}

func newSessionCommand(app *App, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "session", Short: "Inspect the login session"}

	check := &cobra.Command{
		Use:   "check",
		Short: "Log in or restore a session and print its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			snap := app.store.Snapshot()
			state := sessionState{Authenticated: snap.IsAuthenticated(), User: snap.User}
			if snap.User != nil {
				state.Admin = snap.User.IsAdmin()
			}
			return out(cmd).print(state, func(tw *tabwriter.Writer) {
				row(tw, "Authenticated:", state.Authenticated)
				if state.User != nil {
					row(tw, "User:", fmt.Sprintf("%s <%s>", state.User.Name, state.User.Email))
					row(tw, "Role:", state.User.Role)
				}
			})
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh cookie and clear the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}

	cmd.AddCommand(check, logout)
	return cmd
}

type sessionState struct {
	Authenticated bool          `json:"authenticated"`
	Admin         bool          `json:"admin"`
	User          *session.User `json:"user,omitempty"`
}

func printUser(p printer, u *session.User) error {
	return p.print(u, func(tw *tabwriter.Writer) {
		row(tw, "ID:", u.ID)
		row(tw, "Name:", u.Name)
		row(tw, "Email:", u.Email)
		row(tw, "Role:", u.Role)
		if u.Phone != "" {
			row(tw, "Phone:", u.Phone)
		}
		if u.Avatar != "" {
			row(tw, "Avatar:", u.Avatar)
		}
	})
}
