/*
 * Nuts co-sign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package engine

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nuts-foundation/nuts-cosign/api/v1"
	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg"
)

// Engine describes a runnable component: its commands, configuration, flags and http routes.
type Engine struct {
	Cmd *cobra.Command
	// Config is filled from flags, environment and config file before Configure is called
	Config    interface{}
	ConfigKey string
	Configure func() error
	FlagSet   *pflag.FlagSet
	Name      string
	Routes    func(router v1.EchoRouter)
	Shutdown  func()
}

// NewCoSignEngine creates and returns a new co-sign Engine instance.
func NewCoSignEngine() *Engine {
	sign := pkg.SignInstance()

	return &Engine{
		Cmd:       cmd(sign),
		Config:    sign.ConfigRef(),
		ConfigKey: "cosign",
		Configure: sign.Configure,
		FlagSet:   flagSet(),
		Name:      "CoSign",
		Routes: func(router v1.EchoRouter) {
			v1.RegisterHandlers(router, &v1.Wrapper{Sign: sign})
		},
		Shutdown: sign.Shutdown,
	}
}

func initEcho(sign pkg.SignClient) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Use(middleware.Logger())
	v1.RegisterHandlers(echoServer, &v1.Wrapper{Sign: sign})
	return echoServer
}

func cmd(sign *pkg.Sign) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosign",
		Short: "co-signing of documents with an out-of-band identity provider",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "server",
		Short: "Run standalone co-sign server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sign.Configure(); err != nil {
				return err
			}
			defer sign.Shutdown()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			echoServer := initEcho(sign)
			go func() {
				if err := echoServer.Start(sign.Config().Address); err != nil {
					logging.Log().WithError(err).Info("http server stopped")
				}
			}()

			<-stop
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return echoServer.Shutdown(ctx)
		},
	})

	cmd.AddCommand(loginCmd(sign))

	return cmd
}

func loginCmd(sign *pkg.Sign) *cobra.Command {
	var country, nationalID string
	command := &cobra.Command{
		Use:   "login",
		Short: "Authenticate at a running co-sign server and print the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := v1.HttpClient{ServerAddress: sign.Config().Address, Timeout: 2 * time.Minute}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			started, err := client.StartAuthentication(ctx, country, nationalID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Verification code: %s\n", started.VerificationCode)
			qrterminal.GenerateHalfBlock(started.VerificationCode, qrterminal.L, out)
			fmt.Fprintln(out, "Confirm the request on your device if the code matches.")

			result, err := client.ConfirmAuthentication(ctx, started.ContextId)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s, welcome %s\n", result.Message, result.User.Name)
			fmt.Fprintln(out, result.Token)
			return nil
		},
	}
	command.Flags().StringVar(&country, "country", "EE", "country of the national identity code")
	command.Flags().StringVar(&nationalID, "id", "", "national identity code")
	_ = command.MarkFlagRequired("id")
	return command
}

func flagSet() *pflag.FlagSet {
	defaults := pkg.DefaultConfig()
	flags := pflag.NewFlagSet("cosign", pflag.ContinueOnError)

	flags.String(pkg.ConfAddress, defaults.Address, "Interface and port for http server to bind to")
	flags.String(pkg.ConfMode, defaults.Mode, "server or client, when client it does not start any services")
	flags.Bool(pkg.ConfStrict, false, "When set, insecure settings are forbidden.")
	flags.String(pkg.ConfProvider, defaults.Provider, "Identity provider: dummy or smartid")
	flags.String(pkg.ConfStorage, defaults.Storage, "Storage backend: memory or postgres")
	flags.String(pkg.ConfDatabaseURL, "", "Postgres connection url, used with postgres storage")
	flags.Duration(pkg.ConfSigningTimeout, defaults.SigningTimeout, "Maximum time to wait for the user to confirm a signature")
	flags.Duration(pkg.ConfAuthenticationTimeout, 0, "Maximum time to wait for the user to confirm an authentication, 0 leaves it to the provider")
	flags.Duration(pkg.ConfSessionTTL, defaults.SessionTTL, "Time a started session waits for completion")
	flags.String(pkg.ConfTokenSecret, "", "Secret used to sign bearer tokens, generated when empty")
	flags.Duration(pkg.ConfTokenValidity, defaults.TokenValidity, "Validity of bearer tokens")
	flags.String(pkg.ConfMaxUploadSize, defaults.MaxUploadSize, "Maximum size of uploaded documents")
	flags.String(pkg.ConfLocale, defaults.Locale, "Locale of dates in notifications")
	flags.String(pkg.ConfTimezone, defaults.Timezone, "Time zone of dates in notifications")
	flags.String(pkg.ConfSmartIDHostURL, defaults.SmartID.HostURL, "Smart-ID relying party API url")
	flags.String(pkg.ConfSmartIDRPUUID, defaults.SmartID.RelyingPartyUUID, "Smart-ID relying party UUID")
	flags.String(pkg.ConfSmartIDRPName, defaults.SmartID.RelyingPartyName, "Smart-ID relying party name")
	flags.String(pkg.ConfSmartIDLevel, defaults.SmartID.CertificateLevel, "Smart-ID certificate level: ADVANCED or QUALIFIED")
	flags.String(pkg.ConfSmartIDTrustStore, "", "PEM file with the certificates Smart-ID authentication certificates must chain up to")

	return flags
}
