// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

func renderFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "render",
		Usage: "Style Markdown output for the terminal",
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "Index page (9 recipes per page)",
			Value:   1,
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "Only recipes of this family",
		},
		&cli.StringFlag{
			Name:  "search",
			Usage: "Only recipes whose title contains this text",
		},
	}
}

// setupCommand handles setup operations for the database and the browser session.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the latest migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "cookie",
				Usage: "Save the session cookie of a logged-in browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for the cookie (default: credentials.cookie_path)",
					},
				},
				Action: r.SetupCookie,
			},
		},
	}
}

// recipesCommand handles read-only recipe operations
func recipesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recipes",
		Aliases: []string{"r"},
		Usage:   "Browse and export recipes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recipes; --page reads the paginated index",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Index page (9 recipes per page); 0 lists every recipe",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only recipes of this family",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Only recipes whose title contains this text",
					},
				}, jsonFlags()...),
				Action: r.RecipesList,
			},
			{
				Name:      "show",
				Usage:     "Show one recipe",
				ArgsUsage: "<id>",
				Flags:     append(jsonFlags(), renderFlag()),
				Action:    r.RecipesShow,
			},
			{
				Name:      "export",
				Usage:     "Export recipes to csv, markdown, txt, json or xlsx",
				ArgsUsage: "[id...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: recipes_<timestamp>.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "selected",
						Usage: "Export the session's selected recipes",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent recipe requests",
						Value: 4,
					},
				},
				Action: r.RecipesExport,
			},
		},
	}
}

// selectCommand handles the session's recipe selection
func selectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "select",
		Aliases: []string{"sel"},
		Usage:   "Manage the recipe selection of a session",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Select recipes",
				ArgsUsage: "<id...>",
				Action:    r.SelectAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Deselect recipes",
				ArgsUsage: "<id...>",
				Action:    r.SelectRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Flip the selection of recipes",
				ArgsUsage: "<id...>",
				Action:    r.SelectToggle,
			},
			{
				Name:      "open",
				Usage:     "Activate a recipe card: open it while nothing is selected, toggle it otherwise",
				ArgsUsage: "<id>",
				Action:    r.SelectOpen,
			},
			{
				Name:   "clear",
				Usage:  "Deselect every recipe",
				Action: r.SelectClear,
			},
			{
				Name:   "show",
				Usage:  "Show the selection",
				Flags:  jsonFlags()[:1],
				Action: r.SelectShow,
			},
			{
				Name:   "all",
				Usage:  "Select every recipe of an index page",
				Flags:  pageFlags(),
				Action: r.SelectAll,
			},
			{
				Name:   "none",
				Usage:  "Deselect every recipe of an index page",
				Flags:  pageFlags(),
				Action: r.SelectNone,
			},
		},
	}
}

// shoppingListCommand handles shopping list submission
func shoppingListCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "shopping-list",
		Aliases: []string{"shop"},
		Usage:   "Build a shopping list from the selection",
		Commands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "Send the selected recipes to the shopping list page",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the resulting page in the browser",
					},
				},
				Action: r.ShoppingListSubmit,
			},
			{
				Name:  "preview",
				Usage: "Merge the ingredients of the selected recipes into a checklist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the checklist to a file",
					},
					renderFlag(),
				},
				Action: r.ShoppingListPreview,
			},
		},
	}
}

// categoryCommand handles recipe family management
func categoryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "category",
		Aliases: []string{"cat"},
		Usage:   "Manage recipe families",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recipe families",
				Flags:  jsonFlags(),
				Action: r.CategoryList,
			},
			{
				Name:      "add",
				Usage:     "Create a recipe family",
				ArgsUsage: "<name>",
				Action:    r.CategoryAdd,
			},
			{
				Name:      "edit",
				Usage:     "Rename a recipe family",
				ArgsUsage: "<id> <new name>",
				Action:    r.CategoryEdit,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a recipe family",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation",
					},
				},
				Action: r.CategoryDelete,
			},
		},
	}
}

// recipeCommand handles per-recipe actions
func recipeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recipe",
		Usage: "Favorite, rate or mark a recipe as cooked",
		Commands: []*cli.Command{
			{
				Name:      "favorite",
				Aliases:   []string{"fav"},
				Usage:     "Toggle a recipe's favorite flag",
				ArgsUsage: "<id>",
				Action:    r.RecipeFavorite,
			},
			{
				Name:      "rate",
				Usage:     "Rate a recipe from 1 to 5",
				ArgsUsage: "<id> <rating>",
				Action:    r.RecipeRate,
			},
			{
				Name:      "cooked",
				Usage:     "Record that a recipe was cooked",
				ArgsUsage: "<id>",
				Action:    r.RecipeCooked,
			},
		},
	}
}

// sessionCommand handles session lifecycle
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Manage browsing sessions",
		Commands: []*cli.Command{
			{
				Name:   "new",
				Usage:  "Start a session and print its id",
				Action: r.SessionNew,
			},
			{
				Name:      "end",
				Usage:     "End a session and drop its selection",
				ArgsUsage: "[id]",
				Action:    r.SessionEnd,
			},
			{
				Name:   "list",
				Usage:  "List sessions",
				Flags:  jsonFlags(),
				Action: r.SessionList,
			},
			{
				Name:  "purge",
				Usage: "Delete idle sessions",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Idle time after which a session is deleted (default: session.ttl)",
						Value: 12 * time.Hour,
					},
				},
				Action: r.SessionPurge,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive recipe browser",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the shopping list page in the browser after submitting",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Format of exports started from the TUI",
				Value: "markdown",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent recipe requests during exports",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep the selection in memory instead of the session database",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file while the TUI owns the terminal",
				Value: "./tmp/sweetlist-tui.log",
			},
		},
		Action: r.TUI,
	}
}
