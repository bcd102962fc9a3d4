// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/tasks"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log API requests and other debug output",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Answer yes to every confirmation prompt",
		},
		&cli.BoolFlag{
			Name:  "ephemeral",
			Usage: "Keep the session in memory instead of the local database",
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func idArgument(name string) []cli.Argument {
	return []cli.Argument{&cli.IntArg{Name: name, UsageText: "<" + name + ">"}}
}

// problemsCommand handles problem operations
func problemsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "problems",
		Aliases: []string{"p"},
		Usage:   "List, inspect and manage problems",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List problems, optionally filtered",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Match title or description"},
					&cli.StringFlag{Name: "type", Usage: "Filter by problem type"},
					&cli.StringFlag{Name: "tag", Usage: "Filter by tag name"},
					&cli.BoolFlag{Name: "cards", Usage: "Render problem cards instead of a table"},
					jsonFlag(),
				},
				Action: r.ProblemsList,
			},
			{
				Name:      "show",
				Usage:     "Show a problem with its solutions, tags and resources",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, markdown, json",
						Value:   "text",
					},
				},
				Action: r.ProblemsShow,
			},
			{
				Name:  "create",
				Usage: "Create a problem as the signed-in user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Problem title", Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Problem description"},
					&cli.StringFlag{Name: "type", Usage: "Problem type"},
					&cli.IntSliceFlag{Name: "tag", Usage: "Tag id (repeatable)"},
				},
				Action: r.ProblemsCreate,
			},
			{
				Name:      "update",
				Usage:     "Change fields of a problem",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "New title"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
					&cli.StringFlag{Name: "type", Usage: "New problem type"},
				},
				Action: r.ProblemsUpdate,
			},
			{
				Name:      "resolve",
				Usage:     "Mark a problem resolved",
				Arguments: idArgument("id"),
				Action:    r.ProblemsResolve,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete one of your problems",
				Arguments: idArgument("id"),
				Action:    r.ProblemsDelete,
			},
			{
				Name:      "open",
				Usage:     "Open a problem in the web front end",
				Arguments: idArgument("id"),
				Action:    r.ProblemsOpen,
			},
		},
	}
}

// solutionsCommand handles solution operations
func solutionsCommand(r *Runner) *cli.Command {
	solutionFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{Name: "code", Usage: "Code snippet"},
			&cli.StringFlag{Name: "code-file", Usage: "Read the code snippet from a file"},
			&cli.StringFlag{Name: "explanation", Aliases: []string{"e"}, Usage: "Explanation of the approach"},
			&cli.StringFlag{Name: "approach", Usage: "Approach type"},
			&cli.StringFlag{Name: "success-rate", Usage: "Success rate, 0 to 100"},
			&cli.StringFlag{Name: "improvement", Usage: "What this version improves"},
			&cli.StringFlag{Name: "branch", Usage: "Branch type"},
		}
	}

	return &cli.Command{
		Name:    "solutions",
		Aliases: []string{"s"},
		Usage:   "Manage the solutions of a problem",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List the solutions of a problem",
				Arguments: idArgument("problem-id"),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.SolutionsList,
			},
			{
				Name:      "show",
				Usage:     "Show a solution",
				Arguments: idArgument("id"),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.SolutionsShow,
			},
			{
				Name:      "create",
				Usage:     "Add a solution to a problem",
				Arguments: idArgument("problem-id"),
				Flags: append(solutionFlags(),
					&cli.StringFlag{Name: "parent", Usage: "Id of the solution this one improves"},
				),
				Action: r.SolutionsCreate,
			},
			{
				Name:      "update",
				Usage:     "Change fields of a solution",
				Arguments: idArgument("id"),
				Flags:     solutionFlags(),
				Action:    r.SolutionsUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a solution",
				Arguments: idArgument("id"),
				Action:    r.SolutionsDelete,
			},
			{
				Name:      "children",
				Usage:     "List the solutions that improve on a solution",
				Arguments: idArgument("id"),
				Action:    r.SolutionsChildren,
			},
		},
	}
}

// tagsCommand lists tags
func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tags",
		Usage:  "List tags",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.TagsList,
	}
}

// resourcesCommand handles learning resource operations
func resourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "resources",
		Aliases: []string{"r"},
		Usage:   "Browse learning resources",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List resources, optionally filtered",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Match title or summary"},
					&cli.StringFlag{Name: "tag", Usage: "Filter by tag name"},
					&cli.FloatFlag{Name: "min-score", Usage: "Minimum usefulness score, 0 to 5"},
					jsonFlag(),
				},
				Action: r.ResourcesList,
			},
			{
				Name:      "show",
				Usage:     "Show a resource and the problems it is linked to",
				Arguments: idArgument("id"),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ResourcesShow,
			},
			{
				Name:      "visit",
				Usage:     "Record a visit and open the resource in the browser",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-browser", Usage: "Only record the visit"},
				},
				Action: r.ResourcesVisit,
			},
		},
	}
}

// accountCommand handles the signed-in user's profile
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Show and edit your profile",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your profile and problems",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AccountShow,
			},
			{
				Name:  "update",
				Usage: "Edit your profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "New username"},
					&cli.StringFlag{Name: "email", Usage: "New email"},
					&cli.StringFlag{Name: "first-name", Usage: "New first name"},
					&cli.StringFlag{Name: "last-name", Usage: "New last name"},
				},
				Action: r.AccountUpdate,
			},
			{
				Name:   "resources",
				Usage:  "List the resources you have saved",
				Action: r.AccountResources,
			},
		},
	}
}

// authCommand handles the local session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, sign up and sign out",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with an existing account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show who is signed in",
				Action: r.AuthStatus,
			},
		},
	}
}

// dashboardCommand shows the per-user summary
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Show recent activity, top tags and top resources",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Dashboard,
	}
}

func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the API is reachable",
		Action: r.Health,
	}
}

// exportCommand handles exports of problems to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export problems to files",
		Commands: []*cli.Command{
			{
				Name:      "problem",
				Usage:     "Export one problem aggregate",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "markdown or txt", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory (markdown) or file (txt)"},
				},
				Action: r.ExportProblem,
			},
			{
				Name:  "csv",
				Usage: "Export the problem list as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Match title or description"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Base file name", Value: "problems"},
				},
				Action: r.ExportCSV,
			},
			{
				Name:  "bulk",
				Usage: "Export many problems concurrently",
				Arguments: []cli.Argument{
					&cli.IntArgs{Name: "ids", Min: 0, Max: -1, UsageText: "[ids...]"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json, markdown or txt", Value: "markdown"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent writers", Value: tasks.DefaultWorkers},
					&cli.FloatFlag{Name: "rate", Usage: "Fetches per second", Value: tasks.DefaultRateLimit},
				},
				Action: r.ExportBulk,
			},
			{
				Name:  "history",
				Usage: "List recent bulk exports",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Number of runs to show", Value: 10},
				},
				Action: r.ExportHistory,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the SolveX API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the JSON response",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.APIGet,
			},
		},
	}
}

// setupCommand handles setup operations for the configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write config.toml if missing, then initialize the database",
				Action: r.SetupInit,
			},
			{
				Name:   "status",
				Usage:  "List database migrations and whether they are applied",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse problems interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Usage: "Where the TUI writes its log", Value: "./tmp/solvex-tui.log"},
		},
		Action: r.TUI,
	}
}
