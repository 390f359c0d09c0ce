package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/casediag/pkg/auth"
	"github.com/helmcode/casediag/pkg/config"
	"github.com/helmcode/casediag/pkg/formatter"
)

var (
	username string
	password string
)

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from CASEDIAG_PASSWORD or prompted when omitted)")
}

func resolveCredentials() (string, string, error) {
	var err error
	if username == "" {
		if username, err = prompt(os.Stdin, "Username"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		password = config.GetEnv(config.EnvPrefix+"PASSWORD", "")
	}
	if password == "" {
		if password, err = prompt(os.Stdin, "Password"); err != nil {
			return "", "", err
		}
	}
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}

func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}
	addCredentialFlags(cmd)
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	user, pass, err := resolveCredentials()
	if err != nil {
		return err
	}

	sp := newSpinner("Logging in...")
	sp.Start()
	result, err := s.auth.Login(cmd.Context(), user, pass)
	sp.Stop()
	if err != nil {
		printError("Login failed")
		return err
	}

	if err := s.tokens.Save(result.AccessToken); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Logged in as %s", user))

	if result.PasswordChangeRequired {
		printWarning("You are using the default password. Change it with `casediag passwd`.")
	}
	return nil
}

func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			user, pass, err := resolveCredentials()
			if err != nil {
				return err
			}
			msg, err := s.auth.Register(cmd.Context(), user, pass)
			if err != nil {
				printError("Registration failed")
				return err
			}
			printSuccess(msg)
			return nil
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func NewPasswdCmd() *cobra.Command {
	var newPassword string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			cred, err := s.credential()
			if err != nil {
				return err
			}
			if newPassword == "" {
				if newPassword, err = prompt(os.Stdin, "New password"); err != nil {
					return err
				}
			}
			if newPassword == "" {
				return errors.New("new password is required")
			}
			msg, err := s.auth.ChangePassword(cmd.Context(), cred, newPassword)
			if err != nil {
				return err
			}
			printSuccess(msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password (prompted when omitted)")
	return cmd
}

func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			if err := s.tokens.Clear(); err != nil {
				return err
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

type whoami struct {
	Subject   string     `json:"subject" yaml:"subject"`
	IsAdmin   bool       `json:"is_admin" yaml:"is_admin"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool       `json:"expired" yaml:"expired"`
	TokenFile string     `json:"token_file" yaml:"token_file"`
}

func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the stored token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			cred, err := s.tokens.Load()
			if err != nil {
				return err
			}
			claims, err := auth.ParseClaims(cred.Token)
			if err != nil {
				return err
			}

			info := whoami{
				Subject:   claims.Subject,
				IsAdmin:   claims.IsAdmin,
				ExpiresAt: claims.ExpiresAt,
				Expired:   claims.Expired(time.Now()),
				TokenFile: s.tokens.Path(),
			}
			if outputFormat != formatter.FormatHuman {
				return formatter.Display(os.Stdout, info, outputFormat)
			}

			fmt.Printf("User:    %s\n", info.Subject)
			role := "user"
			if info.IsAdmin {
				role = color.MagentaString("admin")
			}
			fmt.Printf("Role:    %s\n", role)
			if info.ExpiresAt != nil {
				expiry := info.ExpiresAt.Local().Format(time.RFC1123)
				if info.Expired {
					expiry = color.RedString(expiry + " (expired)")
				}
				fmt.Printf("Expires: %s\n", expiry)
			}
			return nil
		},
	}
}
