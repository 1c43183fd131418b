package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"allai/client"
	"allai/models"
)

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and cache the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd.Context(), false)
	},
}

var signUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd.Context(), true)
	},
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the cached token",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, credsPath, err := paths()
		if err != nil {
			return err
		}
		if err := client.ClearCredentials(credsPath); err != nil {
			return err
		}
		fmt.Println(infoStyle.Render("Signed out."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signInCmd, signUpCmd, signOutCmd)
}

func authenticate(ctx context.Context, signUp bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, credsPath, _, err := loadEnv()
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	var name string
	if signUp {
		if name, err = line.Prompt("Name: "); err != nil {
			return err
		}
	}
	email, err := line.Prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := line.PasswordPrompt("Password: ")
	if err != nil {
		return err
	}

	api := client.NewAuthAPI(cfg.APIBaseURL, cfg.Timeout.Duration)
	var resp models.AuthResponse
	if signUp {
		resp, err = api.SignUp(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	} else {
		resp, err = api.SignIn(ctx, strings.TrimSpace(email), password)
	}
	if err != nil {
		return authError(err)
	}

	if err := client.SaveCredentials(credsPath, client.Credentials{Token: resp.Token, User: resp.User}); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("Signed in as %s (%s plan).", resp.User.Email, resp.User.Plan())))
	return nil
}

// authError turns a backend {"error": "..."} reply into its message.
func authError(err error) error {
	var se *client.StatusError
	if !errors.As(err, &se) {
		return err
	}
	if msg := errorMessage(se.Body); msg != "" {
		return errors.New(msg)
	}
	return err
}
