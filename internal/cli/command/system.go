package command

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// HealthCommand returns the health command, which checks a running
// server over HTTP.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check server liveness and readiness",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Server base URL",
				EnvVars: []string{"LINKGATE_SERVER"},
				Value:   "http://127.0.0.1:8787",
			},
		},
		Action: healthCheck,
	}
}

func healthCheck(c *cli.Context) error {
	base := strings.TrimRight(c.String("server"), "/")
	client := &http.Client{Timeout: 5 * time.Second}

	for _, path := range []string{"/health", "/ready"} {
		req, err := http.NewRequestWithContext(c.Context, http.MethodGet, base+path, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		status := "ok"
		if resp.StatusCode != http.StatusOK {
			status = resp.Status
		}
		fmt.Fprintf(c.App.Writer, "%-8s %s\n", path, status)

		if c.String("output") == "json" {
			var pretty map[string]any
			if json.Unmarshal(body, &pretty) == nil {
				printJSON(c, pretty)
			}
		}

		if resp.StatusCode != http.StatusOK {
			return cli.Exit("server is not healthy", 1)
		}
	}
	return nil
}
