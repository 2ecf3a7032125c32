package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/slhttpd/internal/client"
	"github.com/muurk/slhttpd/internal/discovery"
	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/ui"
)

// Flags shared by commands that talk to a running server
var (
	remoteURL      string
	remoteDevice   string
	remoteUser     string
	remotePassword string
	remoteTimeout  int
)

func init() {
	for _, cmd := range []*cobra.Command{getCmd, postCmd} {
		f := cmd.Flags()
		f.StringVar(&remoteURL, "url", "http://localhost:8080", "Server base URL")
		f.StringVar(&remoteDevice, "device", "", "Find the server by mDNS instance name instead of --url")
		f.StringVar(&remoteUser, "user", "", "HTTP Basic Auth username")
		f.StringVar(&remotePassword, "password", "", "HTTP Basic Auth password")
		f.IntVar(&remoteTimeout, "timeout", 10, "Request timeout in seconds")
		rootCmd.AddCommand(cmd)
	}
	postCmd.Flags().StringVar(&postPath, "path", "/", "Page the form is posted to")
}

var getCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Fetch a page with GET tokens filled in",
	Example: `  slhttpd-sim get
  slhttpd-sim get /status.html --url http://192.168.1.20
  slhttpd-sim get --device slhttpd`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}

		c, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}
		page, err := c.Page(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("%s: %w", client.ShortMessage(err), err)
		}
		_, err = cmd.OutOrStdout().Write(page)
		return err
	},
}

var postPath string

var postCmd = &cobra.Command{
	Use:   "post ID=VALUE...",
	Short: "Set POST token values by submitting a form",
	Example: `  slhttpd-sim post LD=on
  slhttpd-sim post LD=off MS="hello world" --url http://192.168.1.20`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseAssignments(args)
		if err != nil {
			return err
		}

		c, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := c.PostTokens(cmd.Context(), postPath, values); err != nil {
			return fmt.Errorf("%s: %w", client.ShortMessage(err), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSuccess("Posted %d token(s) to %s", len(values), c.BaseURL))
		return nil
	},
}

func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected ID=VALUE, got %q", arg)
		}
		values[id] = value
	}
	return values, nil
}

func newRemoteClient(ctx context.Context) (*client.Client, error) {
	if err := logging.Initialize(logLevel); err != nil {
		return nil, err
	}

	base := remoteURL
	if remoteDevice != "" {
		scanner := discovery.NewScanner()
		dev, err := scanner.FindDevice(ctx, remoteDevice)
		if err != nil {
			return nil, fmt.Errorf("failed to find %q: %w", remoteDevice, err)
		}
		base = dev.BaseURL()
	}

	c := client.New(base)
	c.SetAuth(remoteUser, remotePassword)
	c.HTTPClient.Timeout = time.Duration(remoteTimeout) * time.Second
	return c, nil
}
