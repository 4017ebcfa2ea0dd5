package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/spf13/cobra"

	"github.com/dwtools/dwcli/internal/display"
	"github.com/dwtools/dwcli/internal/filter"
	"github.com/dwtools/dwcli/internal/platform"
)

// shellSession holds the state of one interactive session
type shellSession struct {
	app      *App
	svc      *platform.Service
	cabinet  *platform.Cabinet
	cabinets []platform.Cabinet
	exitFlag bool
}

// newShellCmd creates the shell command
func (app *App) newShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session against the platform",
		Long: `Start an interactive session against the platform.

Commands auto-complete as you type. Select a cabinet with /cabinet, then
query documents with /get, /id, /filter, or /all.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			return app.runShell(cmd.Context(), svc)
		},
	}

	cmd.Flags().StringVarP(&app.cfg.Cabinet, "cabinet", "c", "", "Cabinet to select on startup")

	return cmd
}

func (app *App) runShell(ctx context.Context, svc *platform.Service) error {
	session := &shellSession{app: app, svc: svc}

	if err := display.InitRenderer(); err != nil {
		display.ShowError(err.Error())
	}

	// Cabinet list is fetched once for name completion
	if cabinets, err := svc.AllCabinets(ctx); err == nil {
		session.cabinets = cabinets
	} else {
		display.ShowError(err.Error())
	}

	if app.cfg.Cabinet != "" {
		session.selectCabinet(ctx, app.cfg.Cabinet)
	}

	fmt.Println("dwcli - Interactive Mode")
	fmt.Printf("Endpoint: %s\n", app.cfg.Endpoint)
	if session.cabinet != nil {
		fmt.Printf("Cabinet: %s\n", session.cabinet.Name)
	}
	fmt.Println("Type /help for commands, Ctrl+C or Ctrl+D to quit")
	fmt.Println()

	p := prompt.New(
		func(input string) { session.execute(ctx, input) },
		prompt.WithCompleter(session.completer),
		prompt.WithPrefix("> "),
		prompt.WithTitle("dwcli"),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return session.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Println("\nGoodbye!")
				session.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Goodbye!")
					session.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
	return nil
}

// completer provides auto-completion for shell commands
func (s *shellSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	if !strings.HasPrefix(text, "/") {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	// /cabinet <name> - suggest known cabinet names
	if strings.HasPrefix(strings.ToLower(text), "/cabinet ") {
		var suggestions []prompt.Suggest
		for _, c := range s.cabinets {
			desc := ""
			if s.cabinet != nil && c.ID == s.cabinet.ID {
				desc = "(current)"
			}
			suggestions = append(suggestions, prompt.Suggest{Text: c.Name, Description: desc})
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	suggestions := []prompt.Suggest{
		{Text: "/cabinet", Description: "Select a cabinet by name"},
		{Text: "/cabinets", Description: "List cabinets"},
		{Text: "/get", Description: "Query documents, e.g. /get SERIAL_NO = [X]"},
		{Text: "/id", Description: "Fetch one document by id"},
		{Text: "/filter", Description: "Filter documents client-side (fetches whole cabinet)"},
		{Text: "/all", Description: "List every document in the cabinet"},
		{Text: "/help", Description: "Show all available commands"},
		{Text: "/exit", Description: "Exit interactive mode"},
		{Text: "/q", Description: "Exit (alias)"},
	}

	return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
}

// execute handles one input line
func (s *shellSession) execute(ctx context.Context, input string) {
	if s.exitFlag {
		return
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	parts := strings.SplitN(input, " ", 2)
	cmd := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/exit", "/quit", "/q":
		fmt.Println("Goodbye!")
		s.exitFlag = true

	case "/help", "/h":
		s.showHelp()

	case "/cabinets":
		fmt.Print(display.RenderMarkdown(display.CabinetsTable(s.cabinets)))

	case "/cabinet":
		if arg == "" {
			fmt.Println("Usage: /cabinet <name>")
			return
		}
		s.selectCabinet(ctx, arg)

	case "/get":
		if arg == "" {
			fmt.Println("Usage: /get FIELD = [VALUE] | FIELD = [VALUE]")
			return
		}
		s.withCabinet(func(cab *platform.Cabinet) {
			conditions, err := platform.ParseQuery(arg)
			if err != nil {
				display.ShowError(err.Error())
				return
			}
			records, err := s.svc.Search(ctx, cab.ID, conditions)
			if err != nil {
				display.ShowError(err.Error())
				return
			}
			s.showRecords(records)
		})

	case "/id":
		if arg == "" {
			fmt.Println("Usage: /id <document id>")
			return
		}
		s.withCabinet(func(cab *platform.Cabinet) {
			record, err := s.svc.Get(ctx, cab.ID, arg)
			if err != nil {
				display.ShowError(err.Error())
				return
			}
			s.showRecords([]platform.DocumentRecord{*record})
		})

	case "/filter":
		if arg == "" {
			fmt.Println("Usage: /filter fields['NAME'] == 'value'")
			return
		}
		s.withCabinet(func(cab *platform.Cabinet) {
			predicate, err := filter.Compile(arg)
			if err != nil {
				display.ShowError(err.Error())
				return
			}
			records, err := fetchAll(ctx, s.svc, cab.ID)
			if err != nil {
				display.ShowError(err.Error())
				return
			}
			var matched []platform.DocumentRecord
			for _, rec := range records {
				if predicate.Eval(rec.Row) {
					matched = append(matched, rec)
				}
			}
			s.showRecords(matched)
		})

	case "/all":
		s.withCabinet(func(cab *platform.Cabinet) {
			records, err := fetchAll(ctx, s.svc, cab.ID)
			if err != nil {
				display.ShowError(err.Error())
				return
			}
			s.showRecords(records)
		})

	default:
		fmt.Printf("Unknown command %s. Type /help for commands.\n", cmd)
	}
}

func (s *shellSession) selectCabinet(ctx context.Context, name string) {
	cabinet, err := s.svc.FindCabinet(ctx, name)
	if err != nil {
		display.ShowError(err.Error())
		return
	}
	s.cabinet = cabinet
	fmt.Printf("Cabinet: %s (%s)\n", cabinet.Name, cabinet.ID)
}

// withCabinet runs fn when a cabinet is selected
func (s *shellSession) withCabinet(fn func(cab *platform.Cabinet)) {
	if s.cabinet == nil {
		fmt.Println("No cabinet selected. Use /cabinet <name> first.")
		return
	}
	fn(s.cabinet)
}

func (s *shellSession) showRecords(records []platform.DocumentRecord) {
	fmt.Print(display.RenderMarkdown(display.DocumentsTable(records, s.app.cfg.IDField)))
	fmt.Printf("%d documents.\n", len(records))
}

func (s *shellSession) showHelp() {
	fmt.Println(`Commands:
  /cabinets            List cabinets
  /cabinet <name>      Select a cabinet
  /get <query>         Server query, e.g. /get SERIAL_NO = [X]
  /id <document id>    Fetch one document
  /filter <predicate>  Client-side filter (fetches the whole cabinet)
  /all                 List every document
  /help                Show this help
  /exit                Quit`)
}
