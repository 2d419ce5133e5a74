package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/adapter"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/urfave/cli/v2"
)

var flagAddress = &cli.StringFlag{
	Name:    "addr",
	Value:   "http://127.0.0.1:8080",
	Usage:   "Broker address",
	EnvVars: []string{"SSDM_ADDR"},
}

var flagAPIKey = &cli.StringFlag{
	Name:    "api-key",
	Usage:   "Mall API key",
	EnvVars: []string{"SSDM_API_KEY"},
}

var flagAdminToken = &cli.StringFlag{
	Name:    "admin-token",
	Usage:   "Broker admin token",
	EnvVars: []string{"SSDM_ADMIN_TOKEN"},
}

var flagTimeout = &cli.DurationFlag{
	Name:  "timeout",
	Value: 15 * time.Second,
	Usage: "Request timeout",
}

// newApp builds the command tree; results are printed to out as JSON.
func newApp(out io.Writer, log *logger.Logger) *cli.App {
	c := &commands{out: out, log: log}

	return &cli.App{
		Name:    "ssdmctl",
		Usage:   "talk to a shipping data broker",
		Version: fmt.Sprintf("%s (%s, %s)", orNA(buildVersion), orNA(buildDate), orNA(buildCommit)),
		Flags: []cli.Flag{
			flagAddress,
			flagAPIKey,
			flagAdminToken,
			flagTimeout,
		},
		Before: c.connect,
		Commands: []*cli.Command{
			c.mallCommand(),
			c.uidCommand(),
			c.sealCommand(),
			c.jwtCommand(),
			c.consentCommand(),
			c.delegateCommand(),
			c.sessionCommand(),
			{
				Name:  "delegate-key",
				Usage: "print the PEM key delegate tokens verify with",
				Action: func(cCtx *cli.Context) error {
					key, err := c.client.DelegateKey(cCtx.Context)
					if err != nil {
						return err
					}
					_, err = out.Write(key)
					return err
				},
			},
			{
				Name:  "server-version",
				Usage: "print the broker version",
				Action: func(cCtx *cli.Context) error {
					version, err := c.client.Version(cCtx.Context)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(out, version)
					return err
				},
			},
		},
	}
}

// commands holds the state shared by every action.
type commands struct {
	client adapter.BrokerClient
	out    io.Writer
	log    *logger.Logger
}

func (c *commands) connect(cCtx *cli.Context) error {
	client, err := adapter.NewHTTPBrokerClient(adapter.Config{
		BaseURL:    cCtx.String(flagAddress.Name),
		APIKey:     cCtx.String(flagAPIKey.Name),
		AdminToken: cCtx.String(flagAdminToken.Name),
		Timeout:    cCtx.Duration(flagTimeout.Name),
	}, c.log)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *commands) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
