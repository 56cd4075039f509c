package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/livemedia/linkgate/internal/core/service"
	"github.com/livemedia/linkgate/internal/telemetry/logger"
)

// GrantCommand returns the grant subcommand group.
func GrantCommand() *cli.Command {
	return &cli.Command{
		Name:  "grant",
		Usage: "Manage download grants",
		Subcommands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Issue a download grant for a SKU",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "sku",
						Usage:    "Product SKU",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Order reference",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Buyer email",
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Download window (defaults to the configured TTL)",
					},
				},
				Action: grantIssue,
			},
			{
				Name:      "show",
				Usage:     "Show a grant by token",
				ArgsUsage: "TOKEN",
				Action:    grantShow,
			},
			{
				Name:      "revoke",
				Aliases:   []string{"rm"},
				Usage:     "Revoke a grant by token",
				ArgsUsage: "TOKEN",
				Action:    grantRevoke,
			},
		},
	}
}

func grantIssue(c *cli.Context) error {
	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ttl := c.Duration("ttl")
	if ttl <= 0 {
		ttl = s.cfg.Downloads.TTL
	}

	issuer := service.NewIssueService(s.catalog, s.grants, ttl,
		logger.NewSlog(logger.Config{Level: "warn", Format: "text"}))

	resp, err := issuer.Issue(c.Context, &service.IssueRequest{
		SKU:     c.String("sku"),
		OrderID: c.String("order"),
		Email:   c.String("email"),
	})
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(c, map[string]any{
			"token": resp.Grant.Token,
			"sku":   resp.Grant.SKU,
			"exp":   resp.Grant.ExpiresAt,
		})
	}
	fmt.Fprintf(c.App.Writer, "token:   %s\nsku:     %s\nexpires: %s\n",
		resp.Grant.Token, resp.Grant.SKU,
		resp.Grant.ExpiresAtTime().Format(time.RFC3339))
	return nil
}

func grantShow(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grant show TOKEN", 2)
	}

	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	grant, err := s.grants.Get(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return printJSON(c, grant)
	}
	fmt.Fprintf(c.App.Writer, "sku:      %s\norder:    %s\nemail:    %s\nfilename: %s\nexpires:  %s\nexpired:  %v\n",
		grant.SKU, grant.OrderID, grant.Email, grant.Filename,
		grant.ExpiresAtTime().Format(time.RFC3339), grant.IsExpired())
	return nil
}

func grantRevoke(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grant revoke TOKEN", 2)
	}

	s, err := openStores(c)
	if err != nil {
		return err
	}
	defer s.Close()

	rawToken := c.Args().First()

	// Surface a clean error for tokens that were never stored.
	if _, err := s.grants.Get(c.Context, rawToken); err != nil {
		return err
	}
	if err := s.grants.Delete(c.Context, rawToken); err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, "revoked")
	return nil
}
