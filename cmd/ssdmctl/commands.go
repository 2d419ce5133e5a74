package main

import (
	"fmt"

	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/urfave/cli/v2"
)

// requireArg returns the single positional argument named name.
func requireArg(cCtx *cli.Context, name string) (string, error) {
	if cCtx.NArg() != 1 || cCtx.Args().First() == "" {
		return "", fmt.Errorf("expected exactly one %s argument", name)
	}
	return cCtx.Args().First(), nil
}

func (c *commands) mallCommand() *cli.Command {
	return &cli.Command{
		Name:  "mall",
		Usage: "mall administration (needs --admin-token)",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "register a mall and print its API key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringSliceFlag{Name: "field", Usage: "allowed field, repeatable", Required: true},
					&cli.StringSliceFlag{Name: "domain", Usage: "allowed domain, repeatable", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(cCtx *cli.Context) error {
					issued, err := c.client.RegisterMall(cCtx.Context, models.MallRegistration{
						MallName:       cCtx.String("name"),
						MallID:         cCtx.String("id"),
						AllowedFields:  cCtx.StringSlice("field"),
						AllowedDomains: cCtx.StringSlice("domain"),
						ContactEmail:   cCtx.String("email"),
						Description:    cCtx.String("description"),
					})
					if err != nil {
						return err
					}
					return c.print(issued)
				},
			},
			{
				Name:      "get",
				ArgsUsage: "MALL_ID",
				Action: func(cCtx *cli.Context) error {
					mallID, err := requireArg(cCtx, "MALL_ID")
					if err != nil {
						return err
					}
					mall, err := c.client.GetMall(cCtx.Context, mallID)
					if err != nil {
						return err
					}
					return c.print(mall)
				},
			},
			{
				Name:      "reissue",
				Usage:     "replace the mall's API key",
				ArgsUsage: "MALL_ID",
				Action: func(cCtx *cli.Context) error {
					mallID, err := requireArg(cCtx, "MALL_ID")
					if err != nil {
						return err
					}
					issued, err := c.client.ReissueAPIKey(cCtx.Context, mallID)
					if err != nil {
						return err
					}
					return c.print(issued)
				},
			},
			{
				Name:      "deactivate",
				ArgsUsage: "MALL_ID",
				Action: func(cCtx *cli.Context) error {
					mallID, err := requireArg(cCtx, "MALL_ID")
					if err != nil {
						return err
					}
					return c.client.DeactivateMall(cCtx.Context, mallID)
				},
			},
		},
	}
}

func (c *commands) uidCommand() *cli.Command {
	return &cli.Command{
		Name:      "uid",
		Usage:     "map an external user id onto a broker uid",
		ArgsUsage: "EXTERNAL_USER_ID",
		Action: func(cCtx *cli.Context) error {
			externalID, err := requireArg(cCtx, "EXTERNAL_USER_ID")
			if err != nil {
				return err
			}
			uid, err := c.client.GetOrCreateUID(cCtx.Context, externalID)
			if err != nil {
				return err
			}
			return c.print(uid)
		},
	}
}

func (c *commands) sealCommand() *cli.Command {
	return &cli.Command{
		Name:      "seal",
		Usage:     "store a user's personal data",
		ArgsUsage: "UID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{Name: "phone"},
			&cli.StringFlag{Name: "address"},
		},
		Action: func(cCtx *cli.Context) error {
			uid, err := requireArg(cCtx, "UID")
			if err != nil {
				return err
			}

			data := models.PersonalData{}
			for _, field := range models.KnownFields {
				if v := cCtx.String(string(field)); v != "" {
					data[field] = v
				}
			}
			return c.client.SealPersonalData(cCtx.Context, uid, data)
		},
	}
}

func (c *commands) jwtCommand() *cli.Command {
	return &cli.Command{
		Name:      "jwt",
		Usage:     "issue a mall-session token",
		ArgsUsage: "EXTERNAL_USER_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Value: string(models.SessionPaper), Usage: "paper or qr"},
		},
		Action: func(cCtx *cli.Context) error {
			externalID, err := requireArg(cCtx, "EXTERNAL_USER_ID")
			if err != nil {
				return err
			}
			token, err := c.client.IssueMallSessionToken(cCtx.Context, models.JWTRequest{
				ExternalUserID: externalID,
				SessionType:    models.SessionType(cCtx.String("type")),
			})
			if err != nil {
				return err
			}
			return c.print(token)
		},
	}
}

func (c *commands) consentCommand() *cli.Command {
	target := []cli.Flag{
		&cli.StringFlag{Name: "uid", Required: true},
		&cli.StringFlag{Name: "shop", Required: true},
	}

	return &cli.Command{
		Name:  "consent",
		Usage: "record, check or revoke a user's consent for a shop",
		Subcommands: []*cli.Command{
			{
				Name: "save",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "type", Value: string(models.ConsentAlways), Usage: "once or always"},
				}, target...),
				Action: func(cCtx *cli.Context) error {
					consent, err := c.client.SaveConsent(cCtx.Context, models.ConsentRequest{
						UID:         cCtx.String("uid"),
						ShopID:      cCtx.String("shop"),
						ConsentType: models.ConsentType(cCtx.String("type")),
					})
					if err != nil {
						return err
					}
					return c.print(consent)
				},
			},
			{
				Name:  "check",
				Flags: target,
				Action: func(cCtx *cli.Context) error {
					state, err := c.client.CheckConsent(cCtx.Context, cCtx.String("uid"), cCtx.String("shop"))
					if err != nil {
						return err
					}
					return c.print(state)
				},
			},
			{
				Name:  "revoke",
				Flags: target,
				Action: func(cCtx *cli.Context) error {
					return c.client.RevokeConsent(cCtx.Context, cCtx.String("uid"), cCtx.String("shop"))
				},
			},
		},
	}
}

func (c *commands) delegateCommand() *cli.Command {
	return &cli.Command{
		Name:  "delegate",
		Usage: "issue a partner token for a delivery partner",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "uid", Required: true},
			&cli.StringFlag{Name: "shop", Required: true},
			&cli.StringSliceFlag{Name: "field", Required: true},
			&cli.StringFlag{Name: "purpose", Value: "delivery"},
			&cli.StringFlag{Name: "consent-type", Usage: "once to affirm consent for this delegation only"},
		},
		Action: func(cCtx *cli.Context) error {
			delegation, err := c.client.Delegate(cCtx.Context, models.DelegationRequest{
				UID:         cCtx.String("uid"),
				ShopID:      cCtx.String("shop"),
				Fields:      cCtx.StringSlice("field"),
				Purpose:     cCtx.String("purpose"),
				ConsentType: models.ConsentType(cCtx.String("consent-type")),
			})
			if err != nil {
				return err
			}
			return c.print(delegation)
		},
	}
}

func (c *commands) sessionCommand() *cli.Command {
	byID := func(run func(cCtx *cli.Context, sessionID string) (any, error)) cli.ActionFunc {
		return func(cCtx *cli.Context) error {
			sessionID, err := requireArg(cCtx, "SESSION_ID")
			if err != nil {
				return err
			}
			result, err := run(cCtx, sessionID)
			if err != nil || result == nil {
				return err
			}
			return c.print(result)
		}
	}

	return &cli.Command{
		Name:  "session",
		Usage: "open and use viewer sessions",
		Subcommands: []*cli.Command{
			{
				Name:  "open",
				Usage: "open a session with a mall-session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "jwt", Required: true},
					&cli.StringSliceFlag{Name: "field", Required: true},
					&cli.StringFlag{Name: "type", Usage: "defaults to the token's session type"},
				},
				Action: func(cCtx *cli.Context) error {
					session, err := c.client.RequestSession(cCtx.Context, models.SessionRequest{
						JWT:            cCtx.String("jwt"),
						RequiredFields: cCtx.StringSlice("field"),
						SessionType:    models.SessionType(cCtx.String("type")),
					})
					if err != nil {
						return err
					}
					return c.print(session)
				},
			},
			{
				Name:  "open-delegated",
				Usage: "open a session with a partner or delegate token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "partner-jwt"},
					&cli.StringFlag{Name: "delegate-jwt"},
					&cli.StringSliceFlag{Name: "field", Required: true},
					&cli.StringFlag{Name: "type", Value: string(models.SessionPaper)},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.String("partner-jwt") == "" && cCtx.String("delegate-jwt") == "" {
						return fmt.Errorf("one of --partner-jwt or --delegate-jwt is required")
					}
					session, err := c.client.RequestDelegatedSession(cCtx.Context, models.DelegatedSessionRequest{
						PartnerJWT:     cCtx.String("partner-jwt"),
						DelegateJWT:    cCtx.String("delegate-jwt"),
						RequiredFields: cCtx.StringSlice("field"),
						SessionType:    models.SessionType(cCtx.String("type")),
					})
					if err != nil {
						return err
					}
					return c.print(session)
				},
			},
			{
				Name:      "status",
				ArgsUsage: "SESSION_ID",
				Action: byID(func(cCtx *cli.Context, id string) (any, error) {
					return c.client.SessionStatus(cCtx.Context, id)
				}),
			},
			{
				Name:      "extend",
				ArgsUsage: "SESSION_ID",
				Action: byID(func(cCtx *cli.Context, id string) (any, error) {
					return c.client.ExtendSession(cCtx.Context, id)
				}),
			},
			{
				Name:      "read",
				Usage:     "print the disclosed personal data",
				ArgsUsage: "SESSION_ID",
				Action: byID(func(cCtx *cli.Context, id string) (any, error) {
					return c.client.ReadSessionData(cCtx.Context, id)
				}),
			},
			{
				Name:      "revoke",
				ArgsUsage: "SESSION_ID",
				Action: byID(func(cCtx *cli.Context, id string) (any, error) {
					return nil, c.client.RevokeSession(cCtx.Context, id)
				}),
			},
		},
	}
}
