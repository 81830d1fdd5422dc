// Command hashpw prints bcrypt hashes for username:password pairs, for
// seeding accounts by hand.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/internlink/internlink/internal/pkg/auth"
	"github.com/internlink/internlink/internal/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:      "hashpw",
		Usage:     "generate bcrypt password hashes",
		ArgsUsage: "username:password [username:password...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "cost",
				Usage: "bcrypt cost factor",
				Value: auth.BcryptCost,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("hashpw failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one username:password pair is required", 2)
	}

	hasher := auth.BcryptHasher{Cost: c.Int("cost")}
	for _, arg := range c.Args().Slice() {
		username, password, ok := strings.Cut(arg, ":")
		if !ok || username == "" || password == "" {
			return cli.Exit(fmt.Sprintf("invalid pair %q, expected username:password", arg), 2)
		}

		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", username, err)
		}

		fmt.Fprintf(c.App.Writer, "Username: %s\nPassword: %s\nHash: %s\nVerified: %t\n\n",
			username, password, hash, hasher.Check(hash, password))
	}
	return nil
}
