// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/andrewwillette/willette/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand creates the config file and token database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the token database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Drop and recreate the token database, discarding the stored token",
			},
		},
		Action: r.Setup,
	}
}

// loginCommand exchanges credentials for a bearer token.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the backend and store the bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Admin username",
				Sources: cli.EnvVars("WILLETTE_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Admin password",
				Sources: cli.EnvVars("WILLETTE_PASSWORD"),
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the stored bearer token",
		Action: r.Logout,
	}
}

func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Report whether a bearer token is stored",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show",
				Usage: "Print the token itself",
			},
		},
		Action: r.Token,
	}
}

// urlsCommand handles soundcloud url operations
func urlsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "urls",
		Aliases: []string{"url", "u"},
		Usage:   "Soundcloud url operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List soundcloud urls in display order",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Output format (%s)", strings.Join(formatter.Formats, ", ")),
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.URLsList,
			},
			{
				Name:  "add",
				Usage: "Add a soundcloud url",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.URLsAdd,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a soundcloud url",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.URLsDelete,
			},
			{
				Name:  "order",
				Usage: "Set the uiOrder of a url and save every order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.URLsOrder,
			},
		},
	}
}

func keyOfDayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "kod",
		Usage:  "Print the key of the day",
		Action: r.KeyOfDay,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the willette backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body and the stored token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// adminCommand returns the top-level TUI command for interactive url management.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "admin",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive admin page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is open",
				Value: "~/.willette/willette.log",
			},
		},
		Action: r.Admin,
	}
}

func devServerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devserver",
		Usage: "Run an in-memory backend for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "seed",
				Usage: "JSON file of [{url, uiOrder}] records to start with",
			},
		},
		Action: r.DevServer,
	}
}
